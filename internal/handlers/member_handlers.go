package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/strongx-golang/internal/apperrors"
	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/membership"
	"github.com/01moynul/strongx-golang/internal/metrics"
	"github.com/01moynul/strongx-golang/internal/models"
)

const memberColumns = `id, member_code, first_name, last_name, email, phone, date_of_birth, gender,
	address, emergency_contact, profile_image, status, join_date, created_at, updated_at`

// memberSortColumns maps the sortBy query value onto a column.
var memberSortColumns = map[string]string{
	"createdAt": "m.created_at",
	"firstName": "m.first_name",
	"lastName":  "m.last_name",
	"joinDate":  "m.join_date",
}

var errMemberNotFound = apperrors.NotFound("Member not found")

func (h *Handlers) getMember(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := h.DB.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id).Scan(
		&m.ID, &m.MemberCode, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.DateOfBirth, &m.Gender,
		&m.Address, &m.EmergencyContact, &m.ProfileImage, &m.Status, &m.JoinDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (h *Handlers) memberExists(ctx context.Context, id string) error {
	var exists bool
	if err := h.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errMemberNotFound
	}
	return nil
}

// listMemberships returns a member's history, newest first, with plans attached.
func (h *Handlers) listMemberships(ctx context.Context, memberID string) ([]models.MembershipHistory, error) {
	query := `
		SELECT h.id, h.member_id, h.plan_id, h.start_date, h.end_date, h.status, h.created_at, h.updated_at,
		       p.id, p.name, p.slug, p.description, p.price, p.duration_days, p.features, p.is_active, p.created_at, p.updated_at
		FROM membership_history h
		JOIN membership_plans p ON p.id = h.plan_id
		WHERE h.member_id = ?
		ORDER BY h.start_date DESC`
	rows, err := h.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []models.MembershipHistory{}
	for rows.Next() {
		var m models.MembershipHistory
		var p models.Plan
		if err := rows.Scan(
			&m.ID, &m.MemberID, &m.PlanID, &m.StartDate, &m.EndDate, &m.Status, &m.CreatedAt, &m.UpdatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DurationDays, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.Plan = &p
		history = append(history, m)
	}
	return history, rows.Err()
}

// GetMembers lists members with their current plan.
func (h *Handlers) GetMembers(c *gin.Context) {
	var q models.MemberQuery
	if !bindQuery(c, &q) {
		return
	}
	q.Normalize()

	var where strings.Builder
	var args []interface{}
	where.WriteString(" WHERE 1=1")

	if q.Search != "" {
		where.WriteString(` AND (m.first_name LIKE ? ESCAPE '\\' OR m.last_name LIKE ? ESCAPE '\\'` +
			` OR m.email LIKE ? ESCAPE '\\' OR m.member_code LIKE ? ESCAPE '\\' OR m.phone LIKE ? ESCAPE '\\')`)
		term := containsPattern(q.Search)
		args = append(args, term, term, term, term, term)
	}
	if q.Status != "" {
		where.WriteString(" AND m.status = ?")
		args = append(args, q.Status)
	}

	ctx := c.Request.Context()

	var total int
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM members m"+where.String(), args...).Scan(&total); err != nil {
		_ = c.Error(err)
		return
	}

	sortCol, ok := memberSortColumns[q.SortBy]
	if !ok {
		sortCol = "m.created_at"
	}
	sortDir := "DESC"
	if q.SortOrder == "asc" {
		sortDir = "ASC"
	}

	// At most one ACTIVE history row exists per member, so the join cannot fan out.
	query := `
		SELECT m.id, m.member_code, m.first_name, m.last_name, m.email, m.phone, m.status,
		       m.join_date, m.profile_image, p.name, h.end_date
		FROM members m
		LEFT JOIN membership_history h ON h.member_id = m.id AND h.status = 'ACTIVE'
		LEFT JOIN membership_plans p ON p.id = h.plan_id` +
		where.String() +
		" ORDER BY " + sortCol + " " + sortDir + " LIMIT ? OFFSET ?"

	rows, err := h.DB.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rows.Close()

	members := []models.MemberListItem{}
	for rows.Next() {
		var m models.MemberListItem
		if err := rows.Scan(
			&m.ID, &m.MemberCode, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Status,
			&m.JoinDate, &m.ProfileImage, &m.CurrentPlan, &m.MembershipEndDate,
		); err != nil {
			_ = c.Error(err)
			return
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	respondList(c, members, models.NewPagination(q.Page, q.Limit, total))
}

// GetMember returns a member with their memberships and last 10 payments.
func (h *Handlers) GetMember(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	member, err := h.getMember(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	history, err := h.listMemberships(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	payments, _, err := h.Billing.List(ctx, models.PaymentQuery{
		PageQuery: models.PageQuery{Page: 1, Limit: 10},
		MemberID:  id,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.MemberDetail{
		Member:      *member,
		Memberships: history,
		Payments:    payments,
	}})
}

// GetMembershipHistory returns every membership of a member.
func (h *Handlers) GetMembershipHistory(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.memberExists(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	history, err := h.listMemberships(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

// CreateMember registers a new member. They stay INACTIVE until a membership starts.
func (h *Handlers) CreateMember(c *gin.Context) {
	var input models.CreateMemberInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	now := h.Clock.Now()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer tx.Rollback()

	code, err := database.NextCode(ctx, tx, "members", "SX")
	if err != nil {
		_ = c.Error(err)
		return
	}

	m := models.Member{
		ID:               uuid.NewString(),
		MemberCode:       code,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		Phone:            input.Phone,
		DateOfBirth:      input.DateOfBirth,
		Gender:           input.Gender,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		ProfileImage:     input.ProfileImage,
		Status:           models.MemberInactive,
		JoinDate:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		m.ID, m.MemberCode, m.FirstName, m.LastName, m.Email, m.Phone, m.DateOfBirth, m.Gender,
		m.Address, m.EmergencyContact, m.ProfileImage, m.Status, m.JoinDate, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		_ = c.Error(err)
		return
	}

	if err := tx.Commit(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": m})
}

// UpdateMember applies a partial update.
func (h *Handlers) UpdateMember(c *gin.Context) {
	var input models.UpdateMemberInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.memberExists(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	var set setClause
	if input.FirstName != nil {
		set.add("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		set.add("last_name", *input.LastName)
	}
	if input.Email != nil {
		set.add("email", *input.Email)
	}
	if input.Phone != nil {
		set.add("phone", *input.Phone)
	}
	if input.DateOfBirth != nil {
		set.add("date_of_birth", *input.DateOfBirth)
	}
	if input.Gender != nil {
		set.add("gender", *input.Gender)
	}
	if input.Address != nil {
		set.add("address", *input.Address)
	}
	if input.EmergencyContact != nil {
		set.add("emergency_contact", *input.EmergencyContact)
	}
	if input.ProfileImage != nil {
		set.add("profile_image", *input.ProfileImage)
	}
	if input.Status != nil {
		set.add("status", *input.Status)
	}

	query, args := set.query("members", h.Clock.Now(), id)
	if _, err := h.DB.ExecContext(ctx, query, args...); err != nil {
		_ = c.Error(err)
		return
	}

	member, err := h.getMember(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": member})
}

// DeleteMember is a soft delete: the member becomes INACTIVE.
func (h *Handlers) DeleteMember(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.memberExists(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.DB.ExecContext(ctx,
		"UPDATE members SET status = ?, updated_at = ? WHERE id = ?",
		models.MemberInactive, h.Clock.Now(), id,
	); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deactivated successfully"})
}

// AddMembership starts a plan for a member without recording a payment.
func (h *Handlers) AddMembership(c *gin.Context) {
	var input models.AddMembershipInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	memberID := c.Param("id")
	now := h.Clock.Now()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer tx.Rollback()

	// 1. --- Lock the member ---
	if err := membership.LockMember(ctx, tx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errMemberNotFound
		}
		_ = c.Error(err)
		return
	}

	// 2. --- Load the plan ---
	plan, err := membership.GetPlan(ctx, tx, input.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		_ = c.Error(apperrors.NotFound("Plan not found"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !plan.IsActive {
		_ = c.Error(apperrors.Validation("Membership plan is not active"))
		return
	}

	// 3. --- Activate ---
	start := now
	if input.StartDate != nil {
		start = *input.StartDate
	}
	m, err := membership.Activate(ctx, tx, memberID, *plan, start, now)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := tx.Commit(); err != nil {
		_ = c.Error(err)
		return
	}
	metrics.RecordActivation(membership.SourceManual)

	c.JSON(http.StatusCreated, gin.H{"data": m})
}
