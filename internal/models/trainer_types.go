package models

import "time"

// Trainer is a coach listed on the site and in the admin panel
// (the 'trainers' table).
type Trainer struct {
	ID             string     `json:"id" db:"id"`
	TrainerCode    string     `json:"trainerId" db:"trainer_code"` // e.g. TRN-0001
	FirstName      string     `json:"firstName" db:"first_name"`
	LastName       string     `json:"lastName" db:"last_name"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	Specialization StringList `json:"specialization" db:"specialization"`
	Certification  StringList `json:"certification" db:"certification"`
	Experience     int        `json:"experience" db:"experience"` // years
	Salary         *float64   `json:"salary" db:"salary"`
	ProfileImage   *string    `json:"profileImage" db:"profile_image"`
	Bio            *string    `json:"bio" db:"bio"`
	JoinDate       time.Time  `json:"joinDate" db:"join_date"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

type CreateTrainerInput struct {
	FirstName      string     `json:"firstName" binding:"required,min=2"`
	LastName       string     `json:"lastName" binding:"required,min=2"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          string     `json:"phone" binding:"required,min=10"`
	Specialization StringList `json:"specialization"`
	Certification  StringList `json:"certification"`
	Experience     *int       `json:"experience" binding:"required,gte=0"`
	Salary         *float64   `json:"salary" binding:"omitempty,gt=0"`
	ProfileImage   *string    `json:"profileImage" binding:"omitempty,url"`
	Bio            *string    `json:"bio"`
}

type UpdateTrainerInput struct {
	FirstName      *string     `json:"firstName" binding:"omitempty,min=2"`
	LastName       *string     `json:"lastName" binding:"omitempty,min=2"`
	Email          *string     `json:"email" binding:"omitempty,email"`
	Phone          *string     `json:"phone" binding:"omitempty,min=10"`
	Specialization *StringList `json:"specialization"`
	Certification  *StringList `json:"certification"`
	Experience     *int        `json:"experience" binding:"omitempty,gte=0"`
	Salary         *float64    `json:"salary" binding:"omitempty,gt=0"`
	ProfileImage   *string     `json:"profileImage" binding:"omitempty,url"`
	Bio            *string     `json:"bio"`
	IsActive       *bool       `json:"isActive"`
}
