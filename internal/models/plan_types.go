package models

import "time"

// Plan defines the model for the 'membership_plans' table
type Plan struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Description  *string    `json:"description" db:"description"`
	Price        float64    `json:"price" db:"price"`
	DurationDays int        `json:"duration" db:"duration_days"` // days
	Features     StringList `json:"features" db:"features"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// Populated by list/detail queries only.
	ActiveMemberships *int `json:"activeMemberships,omitempty" db:"-"`
}

// CreatePlanInput is the body of POST /api/plans.
type CreatePlanInput struct {
	Name         string     `json:"name" binding:"required,min=2"`
	Description  *string    `json:"description"`
	Price        float64    `json:"price" binding:"required,gt=0"`
	DurationDays int        `json:"duration" binding:"required,gte=1"`
	Features     StringList `json:"features"`
}

// UpdatePlanInput is the body of PUT /api/plans/:id. Nil fields are left untouched.
type UpdatePlanInput struct {
	Name         *string     `json:"name" binding:"omitempty,min=2"`
	Description  *string     `json:"description"`
	Price        *float64    `json:"price" binding:"omitempty,gt=0"`
	DurationDays *int        `json:"duration" binding:"omitempty,gte=1"`
	Features     *StringList `json:"features"`
	IsActive     *bool       `json:"isActive"`
}
