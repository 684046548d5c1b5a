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

const trainerColumns = `id, trainer_code, first_name, last_name, email, phone, specialization, certification,
	experience, salary, profile_image, bio, join_date, is_active, created_at, updated_at`

var errTrainerNotFound = apperrors.NotFound("Trainer not found")

func scanTrainer(row interface{ Scan(...any) error }) (*models.Trainer, error) {
	var t models.Trainer
	if err := row.Scan(
		&t.ID, &t.TrainerCode, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Specialization, &t.Certification,
		&t.Experience, &t.Salary, &t.ProfileImage, &t.Bio, &t.JoinDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handlers) getTrainer(ctx context.Context, id string) (*models.Trainer, error) {
	t, err := scanTrainer(h.DB.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainers WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTrainerNotFound
	}
	return t, err
}

func (h *Handlers) GetTrainers(c *gin.Context) {
	query := "SELECT " + trainerColumns + " FROM trainers"
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

	trainers := []models.Trainer{}
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			_ = c.Error(err)
			return
		}
		trainers = append(trainers, *t)
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trainers})
}

func (h *Handlers) GetTrainer(c *gin.Context) {
	t, err := h.getTrainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

// CreateTrainer adds a trainer with the next TRN- code.
func (h *Handlers) CreateTrainer(c *gin.Context) {
	var input models.CreateTrainerInput
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

	code, err := database.NextCode(ctx, tx, "trainers", "TRN")
	if err != nil {
		_ = c.Error(err)
		return
	}

	t := models.Trainer{
		ID:             uuid.NewString(),
		TrainerCode:    code,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Specialization: input.Specialization,
		Certification:  input.Certification,
		Experience:     *input.Experience,
		Salary:         input.Salary,
		ProfileImage:   input.ProfileImage,
		Bio:            input.Bio,
		JoinDate:       now,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.Specialization == nil {
		t.Specialization = models.StringList{}
	}
	if t.Certification == nil {
		t.Certification = models.StringList{}
	}

	query := `INSERT INTO trainers (` + trainerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		t.ID, t.TrainerCode, t.FirstName, t.LastName, t.Email, t.Phone, t.Specialization, t.Certification,
		t.Experience, t.Salary, t.ProfileImage, t.Bio, t.JoinDate, t.IsActive, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		_ = c.Error(err)
		return
	}

	if err := tx.Commit(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": t})
}

func (h *Handlers) UpdateTrainer(c *gin.Context) {
	var input models.UpdateTrainerInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.getTrainer(ctx, id); err != nil {
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
	if input.Specialization != nil {
		set.add("specialization", *input.Specialization)
	}
	if input.Certification != nil {
		set.add("certification", *input.Certification)
	}
	if input.Experience != nil {
		set.add("experience", *input.Experience)
	}
	if input.Salary != nil {
		set.add("salary", *input.Salary)
	}
	if input.ProfileImage != nil {
		set.add("profile_image", *input.ProfileImage)
	}
	if input.Bio != nil {
		set.add("bio", *input.Bio)
	}
	if input.IsActive != nil {
		set.add("is_active", *input.IsActive)
	}

	query, args := set.query("trainers", h.Clock.Now(), id)
	if _, err := h.DB.ExecContext(ctx, query, args...); err != nil {
		_ = c.Error(err)
		return
	}

	t, err := h.getTrainer(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

// DeleteTrainer is a soft delete.
func (h *Handlers) DeleteTrainer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.getTrainer(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.DB.ExecContext(ctx,
		"UPDATE trainers SET is_active = FALSE, updated_at = ? WHERE id = ?", h.Clock.Now(), id,
	); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trainer deactivated successfully"})
}
