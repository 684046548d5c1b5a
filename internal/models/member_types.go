package models

import "time"

// Member statuses.
const (
	MemberActive    = "ACTIVE"
	MemberInactive  = "INACTIVE"
	MemberExpired   = "EXPIRED"
	MemberSuspended = "SUSPENDED"
)

// Member is a gym customer (the 'members' table).
type Member struct {
	ID               string     `json:"id" db:"id"`
	MemberCode       string     `json:"memberId" db:"member_code"` // e.g. SX-0001
	FirstName        string     `json:"firstName" db:"first_name"`
	LastName         string     `json:"lastName" db:"last_name"`
	Email            string     `json:"email" db:"email"`
	Phone            string     `json:"phone" db:"phone"`
	DateOfBirth      *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Gender           *string    `json:"gender" db:"gender"`
	Address          *string    `json:"address" db:"address"`
	EmergencyContact *string    `json:"emergencyContact" db:"emergency_contact"`
	ProfileImage     *string    `json:"profileImage" db:"profile_image"`
	Status           string     `json:"status" db:"status"`
	JoinDate         time.Time  `json:"joinDate" db:"join_date"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MemberListItem is one row of GET /api/members.
type MemberListItem struct {
	ID                string     `json:"id"`
	MemberCode        string     `json:"memberId"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Status            string     `json:"status"`
	JoinDate          time.Time  `json:"joinDate"`
	ProfileImage      *string    `json:"profileImage"`
	CurrentPlan       *string    `json:"currentPlan"`
	MembershipEndDate *time.Time `json:"membershipEndDate"`
}

// MemberDetail is the response of GET /api/members/:id.
type MemberDetail struct {
	Member
	Memberships []MembershipHistory `json:"memberships"`
	Payments    []PaymentDetail     `json:"payments"`
}

// MemberSummary is the embedded member block on payment views.
type MemberSummary struct {
	ID         string `json:"id"`
	MemberCode string `json:"memberId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
}

// CreateMemberInput is the body of POST /api/members.
type CreateMemberInput struct {
	FirstName        string     `json:"firstName" binding:"required,min=2"`
	LastName         string     `json:"lastName" binding:"required,min=2"`
	Email            string     `json:"email" binding:"required,email"`
	Phone            string     `json:"phone" binding:"required,min=10"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Gender           *string    `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergencyContact"`
	ProfileImage     *string    `json:"profileImage" binding:"omitempty,url"`
}

// UpdateMemberInput is the body of PUT /api/members/:id. Nil fields are left untouched.
type UpdateMemberInput struct {
	FirstName        *string    `json:"firstName" binding:"omitempty,min=2"`
	LastName         *string    `json:"lastName" binding:"omitempty,min=2"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	Phone            *string    `json:"phone" binding:"omitempty,min=10"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Gender           *string    `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergencyContact"`
	ProfileImage     *string    `json:"profileImage" binding:"omitempty,url"`
	Status           *string    `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE EXPIRED SUSPENDED"`
}

// MemberQuery is the query string of GET /api/members.
type MemberQuery struct {
	PageQuery
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE EXPIRED SUSPENDED"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=createdAt firstName lastName joinDate"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}
