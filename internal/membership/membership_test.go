package membership

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/strongx-golang/internal/models"
)

var (
	testNow  = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	testPlan = models.Plan{ID: "plan-1", Name: "Monthly", DurationDays: 30, IsActive: true}
)

func TestEndDate(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), EndDate(start, 30))
	assert.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), EndDate(start, 365))
	assert.Equal(t, start, EndDate(start, 0))
}

func TestActivateCancelsThenInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE membership_history\s+SET status = \?, updated_at = \?\s+WHERE member_id = \? AND status = \?`).
		WithArgs(models.MembershipCancelled, testNow, "member-1", models.MembershipActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO membership_history`).
		WithArgs(sqlmock.AnyArg(), "member-1", "plan-1", testNow, testNow.AddDate(0, 0, 30),
			models.MembershipActive, testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE members SET status = \?`).
		WithArgs(models.MemberActive, testNow, "member-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := Activate(context.Background(), db, "member-1", testPlan, testNow, testNow)
	require.NoError(t, err)

	assert.Equal(t, models.MembershipActive, m.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 30), m.EndDate)
	assert.NotEmpty(t, m.ID)
	require.NotNil(t, m.Plan)
	assert.Equal(t, "Monthly", m.Plan.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateStopsOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE membership_history`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO membership_history`).WillReturnError(errors.New("duplicate"))

	_, err = Activate(context.Background(), db, "member-1", testPlan, testNow, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert membership")
	// The member update must not run after a failed insert.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockMemberMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM members WHERE id = \? FOR UPDATE`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = LockMember(context.Background(), db, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSweeperExpiresDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	clock := clockwork.NewFakeClockAt(testNow)
	s := NewSweeper(db, clock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE membership_history\s+SET status = \?, updated_at = \?\s+WHERE status = \? AND end_date < \?`).
		WithArgs(models.MembershipExpired, testNow, models.MembershipActive, testNow).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`UPDATE members m`).
		WithArgs(models.MemberExpired, testNow, models.MemberActive, models.MembershipActive).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	res, err := s.ExpireDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Memberships: 4, Members: 3}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweeperRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewSweeper(db, clockwork.NewFakeClockAt(testNow))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE membership_history`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE members m`).WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err = s.ExpireDue(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("every so often", &Sweeper{})
	require.Error(t, err)

	s, err := NewScheduler("@every 1h", &Sweeper{})
	require.NoError(t, err)
	s.Start()
	s.Stop(context.Background())
}
