package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/ai"
	"github.com/01moynul/strongx-golang/internal/apperrors"
)

var errAIDisabled = apperrors.Unavailable("AI features are not configured")

// GenerateWorkoutPlan asks the AI planner for a personalised plan.
func (h *Handlers) GenerateWorkoutPlan(c *gin.Context) {
	if h.AIService == nil {
		_ = c.Error(errAIDisabled)
		return
	}

	var input ai.WorkoutRequest
	if !bindJSON(c, &input) {
		return
	}

	plan, err := h.AIService.GenerateWorkoutPlan(c.Request.Context(), input)
	if err != nil {
		// Model failures are reported as 503 like an open breaker.
		if apperrors.From(err).Type == apperrors.TypeInternal {
			err = &apperrors.Error{Type: apperrors.TypeUnavailable, Message: "AI service unavailable", Cause: err}
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plan})
}

// GetMotivation returns a short quote. It always answers 200 once AI is configured.
func (h *Handlers) GetMotivation(c *gin.Context) {
	if h.AIService == nil {
		_ = c.Error(errAIDisabled)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": h.AIService.Motivation(c.Request.Context())})
}
