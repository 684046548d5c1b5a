package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/01moynul/strongx-golang/internal/ai"
	"github.com/01moynul/strongx-golang/internal/auth"
	"github.com/01moynul/strongx-golang/internal/billing"
	"github.com/01moynul/strongx-golang/internal/models"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB        *sql.DB
	Tokens    *auth.TokenManager
	Billing   *billing.Service
	AIService *ai.AIService // nil when GEMINI_API_KEY is not set
	Clock     clockwork.Clock
	Uploads   Uploader
}

// New wires the handlers. aiService may be nil.
func New(db *sql.DB, tokens *auth.TokenManager, aiService *ai.AIService, clock clockwork.Clock) *Handlers {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handlers{
		DB:        db,
		Tokens:    tokens,
		Billing:   billing.NewService(db, clock),
		AIService: aiService,
		Clock:     clock,
	}
}

// bindJSON binds and validates the body. On failure the error is queued for
// the ErrorHandler and false is returned.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

func respondList(c *gin.Context, data any, p models.Pagination) {
	c.JSON(http.StatusOK, gin.H{"data": data, "pagination": p})
}

func includeInactive(c *gin.Context) bool {
	return c.Query("includeInactive") == "true"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern turns user input into a LIKE '%...%' pattern matched literally.
// Queries using it must declare ESCAPE '\\' (a single backslash in SQL).
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// setClause collects "column = ?" pairs for partial updates.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

// query builds "UPDATE table SET ... WHERE id = ?". updated_at is always set.
func (s *setClause) query(table string, updatedAt any, id string) (string, []any) {
	s.add("updated_at", updatedAt)
	return "UPDATE " + table + " SET " + strings.Join(s.cols, ", ") + " WHERE id = ?", append(s.args, id)
}

// Health is the liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": h.Clock.Now().UTC()})
}
