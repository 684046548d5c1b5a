package models

import "time"

// Membership history statuses. At most one ACTIVE row exists per member.
const (
	MembershipActive    = "ACTIVE"
	MembershipExpired   = "EXPIRED"
	MembershipCancelled = "CANCELLED"
)

// MembershipHistory links a member to a plan for a bounded period
// (the 'membership_history' table).
type MembershipHistory struct {
	ID        string    `json:"id" db:"id"`
	MemberID  string    `json:"memberId" db:"member_id"`
	PlanID    string    `json:"planId" db:"plan_id"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Plan *Plan `json:"plan,omitempty" db:"-"`
}

// AddMembershipInput is the body of POST /api/members/:id/memberships.
type AddMembershipInput struct {
	PlanID    string     `json:"planId" binding:"required,uuid"`
	StartDate *time.Time `json:"startDate"`
}
