package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/01moynul/strongx-golang/internal/apperrors"
	"github.com/01moynul/strongx-golang/internal/models"
)

var errPlanNotFound = apperrors.NotFound("Plan not found")

// planSelect loads plans together with their ACTIVE membership count.
const planSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.price, p.duration_days, p.features,
	       p.is_active, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM membership_history h WHERE h.plan_id = p.id AND h.status = 'ACTIVE')
	FROM membership_plans p`

func scanPlan(row interface{ Scan(...any) error }) (*models.Plan, error) {
	var p models.Plan
	var active int
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DurationDays, &p.Features,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt, &active,
	); err != nil {
		return nil, err
	}
	p.ActiveMemberships = &active
	return &p, nil
}

func (h *Handlers) getPlan(ctx context.Context, id string) (*models.Plan, error) {
	p, err := scanPlan(h.DB.QueryRowContext(ctx, planSelect+" WHERE p.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPlanNotFound
	}
	return p, err
}

// GetPlans lists plans cheapest first. Inactive plans need includeInactive=true.
func (h *Handlers) GetPlans(c *gin.Context) {
	query := planSelect
	if !includeInactive(c) {
		query += " WHERE p.is_active = TRUE"
	}
	query += " ORDER BY p.price ASC"

	rows, err := h.DB.QueryContext(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			_ = c.Error(err)
			return
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plans})
}

// GetPlan returns one plan.
func (h *Handlers) GetPlan(c *gin.Context) {
	p, err := h.getPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// CreatePlan adds a plan. The slug is derived from the name.
func (h *Handlers) CreatePlan(c *gin.Context) {
	var input models.CreatePlanInput
	if !bindJSON(c, &input) {
		return
	}

	now := h.Clock.Now()
	p := models.Plan{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Slug:         slug.Make(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		DurationDays: input.DurationDays,
		Features:     input.Features,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Features == nil {
		p.Features = models.StringList{}
	}

	query := `
		INSERT INTO membership_plans (id, name, slug, description, price, duration_days, features, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := h.DB.ExecContext(c.Request.Context(), query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.DurationDays, p.Features, p.IsActive, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		// uq_slug turns a duplicate name into a 409.
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": p})
}

// UpdatePlan applies a partial update.
func (h *Handlers) UpdatePlan(c *gin.Context) {
	var input models.UpdatePlanInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.getPlan(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	var set setClause
	if input.Name != nil {
		set.add("name", *input.Name)
		set.add("slug", slug.Make(*input.Name))
	}
	if input.Description != nil {
		set.add("description", *input.Description)
	}
	if input.Price != nil {
		set.add("price", *input.Price)
	}
	if input.DurationDays != nil {
		set.add("duration_days", *input.DurationDays)
	}
	if input.Features != nil {
		set.add("features", *input.Features)
	}
	if input.IsActive != nil {
		set.add("is_active", *input.IsActive)
	}

	query, args := set.query("membership_plans", h.Clock.Now(), id)
	if _, err := h.DB.ExecContext(ctx, query, args...); err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.getPlan(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// DeletePlan deactivates a plan that still has ACTIVE memberships and
// deletes it otherwise. Plans referenced by past memberships or payments
// cannot be hard deleted and answer 409.
func (h *Handlers) DeletePlan(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.getPlan(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if *p.ActiveMemberships > 0 {
		if _, err := h.DB.ExecContext(ctx,
			"UPDATE membership_plans SET is_active = FALSE, updated_at = ? WHERE id = ?", h.Clock.Now(), id,
		); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Plan deactivated (has active memberships)", "deactivated": true})
		return
	}

	if _, err := h.DB.ExecContext(ctx, "DELETE FROM membership_plans WHERE id = ?", id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}
