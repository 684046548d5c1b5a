package middleware

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/auth"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// AuthMiddleware creates a gin.HandlerFunc that acts as our "security guard".
// The token must be valid and its user must still exist and be active.
func AuthMiddleware(db *sql.DB, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. --- The user must still exist and be active ---
		var email, role string
		var isActive bool
		err = db.QueryRowContext(c.Request.Context(),
			"SELECT email, role, is_active FROM users WHERE id = ?", claims.UserID,
		).Scan(&email, &role, &isActive)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !isActive) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}
		if err != nil {
			slog.Error("Auth user lookup failed", "user_id", claims.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// 4. --- Success ---
		// The role is read from the database so a demotion takes effect
		// without waiting for the token to expire.
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, email)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, if any.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
