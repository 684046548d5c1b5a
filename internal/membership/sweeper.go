package membership

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/01moynul/strongx-golang/internal/metrics"
	"github.com/01moynul/strongx-golang/internal/models"
)

// SweepResult reports how many rows one ExpireDue call changed.
type SweepResult struct {
	Memberships int64
	Members     int64
}

// Sweeper expires memberships whose end date has passed.
type Sweeper struct {
	DB    *sql.DB
	Clock clockwork.Clock
}

// NewSweeper returns a Sweeper reading time from clock.
func NewSweeper(db *sql.DB, clock clockwork.Clock) *Sweeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sweeper{DB: db, Clock: clock}
}

// ExpireDue marks overdue ACTIVE memberships EXPIRED, then marks ACTIVE
// members that no longer hold an ACTIVE membership EXPIRED. Both updates
// commit together.
func (s *Sweeper) ExpireDue(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.Clock.Now()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin sweep: %w", err)
	}
	defer tx.Rollback()

	historyQuery := `
		UPDATE membership_history
		SET status = ?, updated_at = ?
		WHERE status = ? AND end_date < ?`
	r, err := tx.ExecContext(ctx, historyQuery, models.MembershipExpired, now, models.MembershipActive, now)
	if err != nil {
		return res, fmt.Errorf("expire memberships: %w", err)
	}
	res.Memberships, _ = r.RowsAffected()

	memberQuery := `
		UPDATE members m
		SET m.status = ?, m.updated_at = ?
		WHERE m.status = ?
		  AND NOT EXISTS (
		    SELECT 1 FROM membership_history h
		    WHERE h.member_id = m.id AND h.status = ?
		  )`
	r, err = tx.ExecContext(ctx, memberQuery, models.MemberExpired, now, models.MemberActive, models.MembershipActive)
	if err != nil {
		return res, fmt.Errorf("expire members: %w", err)
	}
	res.Members, _ = r.RowsAffected()

	if err := tx.Commit(); err != nil {
		return SweepResult{}, fmt.Errorf("commit sweep: %w", err)
	}

	metrics.RecordExpired(res.Memberships)
	return res, nil
}

// Run is the cron entry point. Errors are logged, never returned.
func (s *Sweeper) Run() {
	res, err := s.ExpireDue(context.Background())
	if err != nil {
		slog.Error("Membership expiry sweep failed", "error", err)
		return
	}
	if res.Memberships > 0 || res.Members > 0 {
		slog.Info("Membership expiry sweep", "memberships", res.Memberships, "members", res.Members)
	}
}
