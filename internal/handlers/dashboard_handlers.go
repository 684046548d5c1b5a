package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/models"
)

// expiringWindow is how far ahead the dashboard looks for ending memberships.
const expiringWindow = 7 * 24 * time.Hour

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// daysRemaining rounds up, so anything ending later today counts as 1 day.
func daysRemaining(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// GetDashboardSummary returns KPI data for the admin dashboard
// GET /api/admin/dashboard/summary
func (h *Handlers) GetDashboardSummary(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.Clock.Now()
	summary := models.DashboardSummary{ExpiringMemberships: []models.ExpiringMembership{}}

	// 1. Members by status
	rows, err := h.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM members GROUP BY status")
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			_ = c.Error(err)
			return
		}
		summary.Members.Total += n
		switch status {
		case models.MemberActive:
			summary.Members.Active = n
		case models.MemberExpired:
			summary.Members.Expired = n
		case models.MemberInactive:
			summary.Members.Inactive = n
		case models.MemberSuspended:
			summary.Members.Suspended = n
		}
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	// 2. New members this month
	err = h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM members WHERE join_date >= ?", startOfMonth(now)).
		Scan(&summary.Members.NewThisMonth)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// 3. Memberships ending within the window
	expiring, err := h.expiringMemberships(ctx, now)
	if err != nil {
		_ = c.Error(err)
		return
	}
	summary.ExpiringMemberships = expiring

	// 4. Active staff and trainers
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM staff WHERE is_active = TRUE").Scan(&summary.Staff.Total); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM trainers WHERE is_active = TRUE").Scan(&summary.Trainers.Total); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) expiringMemberships(ctx context.Context, now time.Time) ([]models.ExpiringMembership, error) {
	query := `
		SELECT h.id, m.member_code, m.first_name, m.last_name, m.email, m.phone, p.name, h.end_date
		FROM membership_history h
		JOIN members m ON m.id = h.member_id
		JOIN membership_plans p ON p.id = h.plan_id
		WHERE h.status = 'ACTIVE' AND h.end_date >= ? AND h.end_date <= ?
		ORDER BY h.end_date ASC`
	rows, err := h.DB.QueryContext(ctx, query, now, now.Add(expiringWindow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ExpiringMembership{}
	for rows.Next() {
		var e models.ExpiringMembership
		var firstName, lastName string
		if err := rows.Scan(&e.ID, &e.MemberCode, &firstName, &lastName, &e.Email, &e.Phone, &e.PlanName, &e.EndDate); err != nil {
			return nil, err
		}
		e.MemberName = firstName + " " + lastName
		e.DaysRemaining = daysRemaining(e.EndDate, now)
		list = append(list, e)
	}
	return list, rows.Err()
}

func (h *Handlers) revenueSince(ctx context.Context, from, to time.Time) (models.RevenueBucket, error) {
	var b models.RevenueBucket
	err := h.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE status = 'COMPLETED' AND payment_date >= ? AND payment_date <= ?`, from, to,
	).Scan(&b.Amount, &b.Transactions)
	return b, err
}

// GetRevenueSummary returns COMPLETED revenue for today, this month and this year
// GET /api/admin/dashboard/revenue
func (h *Handlers) GetRevenueSummary(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.Clock.Now()
	monthStart := startOfMonth(now)

	var summary models.RevenueSummary
	var err error

	// 1. Revenue windows
	if summary.Revenue.Today, err = h.revenueSince(ctx, startOfDay(now), now); err != nil {
		_ = c.Error(err)
		return
	}
	if summary.Revenue.Month, err = h.revenueSince(ctx, monthStart, now); err != nil {
		_ = c.Error(err)
		return
	}
	if summary.Revenue.Year, err = h.revenueSince(ctx, startOfYear(now), now); err != nil {
		_ = c.Error(err)
		return
	}

	// 2. Five most recent payments, any status
	rows, err := h.DB.QueryContext(ctx, `
		SELECT p.id, p.payment_code, m.first_name, m.last_name, p.amount, p.payment_method, p.payment_date, p.status
		FROM payments p
		JOIN members m ON m.id = p.member_id
		ORDER BY p.payment_date DESC
		LIMIT 5`)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rows.Close()

	summary.RecentPayments = []models.RecentPayment{}
	for rows.Next() {
		var r models.RecentPayment
		var firstName, lastName string
		if err := rows.Scan(&r.ID, &r.PaymentCode, &firstName, &lastName, &r.Amount, &r.Method, &r.Date, &r.Status); err != nil {
			_ = c.Error(err)
			return
		}
		r.MemberName = firstName + " " + lastName
		summary.RecentPayments = append(summary.RecentPayments, r)
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	// 3. Method breakdown for this month
	methodRows, err := h.DB.QueryContext(ctx, `
		SELECT payment_method, COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE status = 'COMPLETED' AND payment_date >= ? AND payment_date <= ?
		GROUP BY payment_method`, monthStart, now)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer methodRows.Close()

	summary.PaymentMethodBreakdown = []models.MethodBreakdown{}
	for methodRows.Next() {
		var b models.MethodBreakdown
		if err := methodRows.Scan(&b.Method, &b.Amount, &b.Count); err != nil {
			_ = c.Error(err)
			return
		}
		summary.PaymentMethodBreakdown = append(summary.PaymentMethodBreakdown, b)
	}
	if err := methodRows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
