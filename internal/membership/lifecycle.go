// Package membership owns the membership_history lifecycle: activating a plan
// for a member and expiring memberships whose period has ended.
package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/models"
)

// Activation sources used as the metrics label.
const (
	SourcePayment = "payment"
	SourceManual  = "manual"
)

// EndDate returns start plus days calendar days.
func EndDate(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days)
}

// Activate makes plan the member's only ACTIVE membership, starting at start.
// It must run inside the caller's transaction, after the member row has been
// locked, so the cancel and insert are seen together or not at all.
func Activate(ctx context.Context, q database.Querier, memberID string, plan models.Plan, start, now time.Time) (*models.MembershipHistory, error) {
	// 1. --- Cancel whatever is currently active ---
	cancelQuery := `
		UPDATE membership_history
		SET status = ?, updated_at = ?
		WHERE member_id = ? AND status = ?`
	if _, err := q.ExecContext(ctx, cancelQuery, models.MembershipCancelled, now, memberID, models.MembershipActive); err != nil {
		return nil, fmt.Errorf("cancel active membership: %w", err)
	}

	// 2. --- Insert the new ACTIVE period ---
	m := &models.MembershipHistory{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   EndDate(start, plan.DurationDays),
		Status:    models.MembershipActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	insertQuery := `
		INSERT INTO membership_history (id, member_id, plan_id, start_date, end_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := q.ExecContext(ctx, insertQuery,
		m.ID, m.MemberID, m.PlanID, m.StartDate, m.EndDate, m.Status, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}

	// 3. --- The member is now active ---
	memberQuery := "UPDATE members SET status = ?, updated_at = ? WHERE id = ?"
	if _, err := q.ExecContext(ctx, memberQuery, models.MemberActive, now, memberID); err != nil {
		return nil, fmt.Errorf("activate member: %w", err)
	}

	p := plan
	m.Plan = &p
	return m, nil
}

// LockMember takes a row lock on the member. It returns sql.ErrNoRows when
// the member does not exist. Renewals for the same member
// serialize on this lock.
func LockMember(ctx context.Context, q database.Querier, memberID string) error {
	var id string
	return q.QueryRowContext(ctx, "SELECT id FROM members WHERE id = ? FOR UPDATE", memberID).Scan(&id)
}

// planColumns is shared by every query that loads a full plan row.
const planColumns = "id, name, slug, description, price, duration_days, features, is_active, created_at, updated_at"

// GetPlan loads a plan by id. It returns sql.ErrNoRows when missing.
func GetPlan(ctx context.Context, q database.Querier, planID string) (*models.Plan, error) {
	var p models.Plan
	query := "SELECT " + planColumns + " FROM membership_plans WHERE id = ?"
	err := q.QueryRowContext(ctx, query, planID).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DurationDays,
		&p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
