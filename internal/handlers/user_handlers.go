package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/strongx-golang/internal/apperrors"
	"github.com/01moynul/strongx-golang/internal/auth"
	"github.com/01moynul/strongx-golang/internal/middleware"
	"github.com/01moynul/strongx-golang/internal/models"
)

const userColumns = "id, email, password_hash, name, role, is_active, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login checks the credentials and returns a token.
func (h *Handlers) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	// 1. --- Find the user ---
	user, err := scanUser(h.DB.QueryRowContext(c.Request.Context(),
		"SELECT "+userColumns+" FROM users WHERE email = ?", input.Email))
	if errors.Is(err, sql.ErrNoRows) {
		_ = c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !user.IsActive {
		_ = c.Error(apperrors.Unauthorized("Account is deactivated"))
		return
	}

	// 2. --- Check the password ---
	password := models.Password{Hash: user.PasswordHash}
	ok, err := password.Matches(input.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		_ = c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}

	// 3. --- Issue the token ---
	token, err := h.Tokens.GenerateToken(auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		_ = c.Error(apperrors.Internal("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Register creates another admin-panel account. Only a SUPER_ADMIN may call it.
func (h *Handlers) Register(c *gin.Context) {
	var input models.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Role == "" {
		input.Role = models.RoleStaff
	}

	ctx := c.Request.Context()

	var exists bool
	if err := h.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", input.Email).Scan(&exists); err != nil {
		_ = c.Error(err)
		return
	}
	if exists {
		_ = c.Error(apperrors.Conflict("Email already registered"))
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		_ = c.Error(apperrors.Internal("Failed to hash password", err))
		return
	}

	now := h.Clock.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: password.Hash,
		Name:         input.Name,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := h.DB.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	); err != nil {
		// A concurrent register of the same email lands here as 1062.
		_ = c.Error(err)
		return
	}

	token, err := h.Tokens.GenerateToken(auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		_ = c.Error(apperrors.Internal("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user.
func (h *Handlers) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized("Not authenticated"))
		return
	}

	user, err := scanUser(h.DB.QueryRowContext(c.Request.Context(),
		"SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		_ = c.Error(apperrors.NotFound("User not found"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout only acknowledges; the client drops its token.
func (h *Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
