package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"

	"github.com/01moynul/strongx-golang/internal/metrics"
)

// FallbackMotivation is returned whenever the model cannot be reached.
const FallbackMotivation = "TRANSFORM BODY AND MIND AT STRONGX."

// ErrEmptyResponse means the model answered without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// Exercise is one line of a generated workout plan.
type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
	Tip  string `json:"tip"`
}

// WorkoutPlan is the structured answer of the planner.
type WorkoutPlan struct {
	PlanName  string     `json:"planName"`
	Summary   string     `json:"summary"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutRequest is the body of POST /api/ai/workout-plan.
type WorkoutRequest struct {
	Goal         string `json:"goal" binding:"required,max=200"`
	FitnessLevel string `json:"fitnessLevel" binding:"required,max=50"`
	Equipment    string `json:"equipment" binding:"required,max=200"`
}

// generator is the single model call the service needs. A nil schema means
// plain text output.
type generator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// AIService talks to Gemini through a circuit breaker.
type AIService struct {
	gen     generator
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewAIService initializes the Gemini client for modelName.
func NewAIService(ctx context.Context, apiKey, modelName string) (*AIService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return newService(&geminiGenerator{client: client, model: modelName}), nil
}

func newService(gen generator) *AIService {
	return &AIService{
		gen:     gen,
		timeout: 30 * time.Second,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gemini",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			// Cancelled callers do not count against the model.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("AI circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Close releases the underlying client, if any.
func (s *AIService) Close() error {
	if g, ok := s.gen.(*geminiGenerator); ok {
		return g.client.Close()
	}
	return nil
}

func (s *AIService) call(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.gen.Generate(ctx, prompt, schema)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

var workoutSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"planName": {Type: genai.TypeString},
		"summary":  {Type: genai.TypeString},
		"exercises": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
					"sets": {Type: genai.TypeInteger},
					"reps": {Type: genai.TypeString},
					"tip":  {Type: genai.TypeString},
				},
				Required: []string{"name", "sets", "reps", "tip"},
			},
		},
	},
	Required: []string{"planName", "summary", "exercises"},
}

// GenerateWorkoutPlan asks the model for a plan matching the member's profile.
func (s *AIService) GenerateWorkoutPlan(ctx context.Context, req WorkoutRequest) (*WorkoutPlan, error) {
	prompt := fmt.Sprintf(`Create a personalized fitness plan for someone with the following profile:
Goal: %s
Fitness Level: %s
Equipment Available: %s

Provide the plan in JSON format with exercise names, sets, reps, and a brief tip for each.`,
		req.Goal, req.FitnessLevel, req.Equipment)

	text, err := s.call(ctx, prompt, workoutSchema)
	if err != nil {
		metrics.RecordAIRequest("workout_plan", "error")
		return nil, err
	}

	var plan WorkoutPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		metrics.RecordAIRequest("workout_plan", "invalid")
		return nil, fmt.Errorf("decode workout plan: %w", err)
	}
	metrics.RecordAIRequest("workout_plan", "ok")
	return &plan, nil
}

// Motivation returns a short quote. It never fails; errors yield FallbackMotivation.
func (s *AIService) Motivation(ctx context.Context) string {
	prompt := "Give me one short, powerful, aggressive fitness motivation quote for a high-end gym brand called StrongX. Keep it under 15 words."

	text, err := s.call(ctx, prompt, nil)
	if err != nil {
		metrics.RecordAIRequest("motivation", "fallback")
		slog.Warn("AI motivation fell back", "error", err)
		return FallbackMotivation
	}
	metrics.RecordAIRequest("motivation", "ok")
	return strings.TrimSpace(text)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
