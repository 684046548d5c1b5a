package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/strongx-golang/internal/apperrors"
	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/models"
)

const staffColumns = `id, staff_code, first_name, last_name, email, phone, role, salary,
	profile_image, join_date, is_active, created_at, updated_at`

var errStaffNotFound = apperrors.NotFound("Staff member not found")

func scanStaff(row interface{ Scan(...any) error }) (*models.Staff, error) {
	var s models.Staff
	if err := row.Scan(
		&s.ID, &s.StaffCode, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.Role, &s.Salary,
		&s.ProfileImage, &s.JoinDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *Handlers) getStaff(ctx context.Context, id string) (*models.Staff, error) {
	s, err := scanStaff(h.DB.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errStaffNotFound
	}
	return s, err
}

// GetStaff lists staff, newest first. Inactive staff need includeInactive=true.
func (h *Handlers) GetStaff(c *gin.Context) {
	query := "SELECT " + staffColumns + " FROM staff"
	if !includeInactive(c) {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := h.DB.QueryContext(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rows.Close()

	staff := []models.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			_ = c.Error(err)
			return
		}
		staff = append(staff, *s)
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": staff})
}

func (h *Handlers) GetStaffMember(c *gin.Context) {
	s, err := h.getStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s})
}

// CreateStaff adds a staff member with the next STF- code.
func (h *Handlers) CreateStaff(c *gin.Context) {
	var input models.CreateStaffInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	now := h.Clock.Now()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer tx.Rollback()

	code, err := database.NextCode(ctx, tx, "staff", "STF")
	if err != nil {
		_ = c.Error(err)
		return
	}

	s := models.Staff{
		ID:           uuid.NewString(),
		StaffCode:    code,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         input.Role,
		Salary:       input.Salary,
		ProfileImage: input.ProfileImage,
		JoinDate:     now,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `INSERT INTO staff (` + staffColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		s.ID, s.StaffCode, s.FirstName, s.LastName, s.Email, s.Phone, s.Role, s.Salary,
		s.ProfileImage, s.JoinDate, s.IsActive, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		_ = c.Error(err)
		return
	}

	if err := tx.Commit(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": s})
}

// UpdateStaff applies a partial update.
func (h *Handlers) UpdateStaff(c *gin.Context) {
	var input models.UpdateStaffInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.getStaff(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	var set setClause
	if input.FirstName != nil {
		set.add("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		set.add("last_name", *input.LastName)
	}
	if input.Email != nil {
		set.add("email", *input.Email)
	}
	if input.Phone != nil {
		set.add("phone", *input.Phone)
	}
	if input.Role != nil {
		set.add("role", *input.Role)
	}
	if input.Salary != nil {
		set.add("salary", *input.Salary)
	}
	if input.ProfileImage != nil {
		set.add("profile_image", *input.ProfileImage)
	}
	if input.IsActive != nil {
		set.add("is_active", *input.IsActive)
	}

	query, args := set.query("staff", h.Clock.Now(), id)
	if _, err := h.DB.ExecContext(ctx, query, args...); err != nil {
		_ = c.Error(err)
		return
	}

	s, err := h.getStaff(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s})
}

// DeleteStaff is a soft delete.
func (h *Handlers) DeleteStaff(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.getStaff(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.DB.ExecContext(ctx,
		"UPDATE staff SET is_active = FALSE, updated_at = ? WHERE id = ?", h.Clock.Now(), id,
	); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deactivated successfully"})
}
