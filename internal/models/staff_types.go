package models

import "time"

// Staff is a front-desk or operations employee (the 'staff' table).
type Staff struct {
	ID           string    `json:"id" db:"id"`
	StaffCode    string    `json:"staffId" db:"staff_code"` // e.g. STF-0001
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Role         string    `json:"role" db:"role"`
	Salary       *float64  `json:"salary" db:"salary"`
	ProfileImage *string   `json:"profileImage" db:"profile_image"`
	JoinDate     time.Time `json:"joinDate" db:"join_date"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateStaffInput struct {
	FirstName    string   `json:"firstName" binding:"required,min=2"`
	LastName     string   `json:"lastName" binding:"required,min=2"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        string   `json:"phone" binding:"required,min=10"`
	Role         string   `json:"role" binding:"required,min=2"`
	Salary       *float64 `json:"salary" binding:"omitempty,gt=0"`
	ProfileImage *string  `json:"profileImage" binding:"omitempty,url"`
}

type UpdateStaffInput struct {
	FirstName    *string  `json:"firstName" binding:"omitempty,min=2"`
	LastName     *string  `json:"lastName" binding:"omitempty,min=2"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	Phone        *string  `json:"phone" binding:"omitempty,min=10"`
	Role         *string  `json:"role" binding:"omitempty,min=2"`
	Salary       *float64 `json:"salary" binding:"omitempty,gt=0"`
	ProfileImage *string  `json:"profileImage" binding:"omitempty,url"`
	IsActive     *bool    `json:"isActive"`
}
