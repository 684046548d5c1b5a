// Package billing records payments, issues their invoices and renews the
// member's plan when a payment is made against one.
package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/01moynul/strongx-golang/internal/apperrors"
	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/invoice"
	"github.com/01moynul/strongx-golang/internal/membership"
	"github.com/01moynul/strongx-golang/internal/metrics"
	"github.com/01moynul/strongx-golang/internal/models"
)

// Service runs the payment workflows.
type Service struct {
	DB    *sql.DB
	Clock clockwork.Clock
}

// NewService returns a Service. A nil clock means wall time.
func NewService(db *sql.DB, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{DB: db, Clock: clock}
}

// RecordPayment stores a COMPLETED payment with its invoice and, when a plan
// is given, replaces the member's ACTIVE membership with a new one starting
// now. All writes commit together or not at all.
func (s *Service) RecordPayment(ctx context.Context, input models.CreatePaymentInput) (*models.PaymentDetail, error) {
	now := s.Clock.Now()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin payment: %w", err)
	}
	defer tx.Rollback()

	// 1. --- Lock the member so renewals for them serialize ---
	var member models.MemberSummary
	var firstName, lastName string
	memberQuery := `
		SELECT id, member_code, first_name, last_name, email, phone
		FROM members WHERE id = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, memberQuery, input.MemberID).Scan(
		&member.ID, &member.MemberCode, &firstName, &lastName, &member.Email, &member.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Member not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock member: %w", err)
	}
	member.Name = firstName + " " + lastName

	// 2. --- Resolve the plan being paid for ---
	var plan *models.Plan
	if input.PlanID != nil && *input.PlanID != "" {
		plan, err = membership.GetPlan(ctx, tx, *input.PlanID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Membership plan not found")
		}
		if err != nil {
			return nil, fmt.Errorf("load plan: %w", err)
		}
		if !plan.IsActive {
			return nil, apperrors.Validation("Membership plan is not active")
		}
	}

	// 3. --- Display codes ---
	paymentCode, err := database.NextCode(ctx, tx, "payments", "PAY")
	if err != nil {
		return nil, err
	}
	invoiceNumber, err := database.NextCode(ctx, tx, "invoices", "INV")
	if err != nil {
		return nil, err
	}

	// 4. --- Payment ---
	payment := models.Payment{
		ID:            uuid.NewString(),
		PaymentCode:   paymentCode,
		MemberID:      member.ID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentDate:   now,
		Status:        models.PaymentCompleted,
		Description:   input.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	paymentQuery := `
		INSERT INTO payments (id, payment_code, member_id, amount, payment_method, payment_date, status, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, paymentQuery,
		payment.ID, payment.PaymentCode, payment.MemberID, payment.Amount, payment.PaymentMethod,
		payment.PaymentDate, payment.Status, payment.Description, payment.CreatedAt, payment.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	// 5. --- Invoice ---
	inv := models.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: invoiceNumber,
		PaymentID:     payment.ID,
		IssuedDate:    now,
		CreatedAt:     now,
	}
	invoiceQuery := `
		INSERT INTO invoices (id, invoice_number, payment_id, issued_date, created_at)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, invoiceQuery,
		inv.ID, inv.InvoiceNumber, inv.PaymentID, inv.IssuedDate, inv.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	// 6. --- Renew the membership ---
	var renewed *models.MembershipHistory
	if plan != nil {
		renewed, err = membership.Activate(ctx, tx, member.ID, *plan, now, now)
		if err != nil {
			return nil, err
		}
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	metrics.RecordPayment(payment.PaymentMethod)
	if renewed != nil {
		metrics.RecordActivation(membership.SourcePayment)
	}
	slog.Info("Payment recorded",
		"payment", payment.PaymentCode, "invoice", inv.InvoiceNumber,
		"member", member.MemberCode, "renewed", renewed != nil)

	return &models.PaymentDetail{
		Payment:       payment,
		Member:        &member,
		Invoice:       &inv,
		InvoiceNumber: &inv.InvoiceNumber,
		Membership:    renewed,
	}, nil
}

// Refund moves a COMPLETED payment to REFUNDED. Memberships are left as they are.
func (s *Service) Refund(ctx context.Context, paymentID string) (*models.PaymentDetail, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin refund: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM payments WHERE id = ? FOR UPDATE", paymentID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	if status != models.PaymentCompleted {
		return nil, apperrors.Validation("Only completed payments can be refunded")
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE payments SET status = ?, updated_at = ? WHERE id = ?",
		models.PaymentRefunded, s.Clock.Now(), paymentID,
	); err != nil {
		return nil, fmt.Errorf("refund payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit refund: %w", err)
	}
	metrics.RecordRefund()

	return s.Get(ctx, paymentID)
}

const detailSelect = `
	SELECT p.id, p.payment_code, p.member_id, p.amount, p.payment_method, p.payment_date,
	       p.status, p.description, p.created_at, p.updated_at,
	       m.member_code, m.first_name, m.last_name, m.email, m.phone,
	       i.id, i.invoice_number, i.issued_date, i.created_at
	FROM payments p
	JOIN members m ON m.id = p.member_id
	LEFT JOIN invoices i ON i.payment_id = p.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(row rowScanner) (*models.PaymentDetail, error) {
	var d models.PaymentDetail
	var member models.MemberSummary
	var firstName, lastName string
	var invID, invNumber sql.NullString
	var invIssued, invCreated sql.NullTime

	if err := row.Scan(
		&d.ID, &d.PaymentCode, &d.MemberID, &d.Amount, &d.PaymentMethod, &d.PaymentDate,
		&d.Status, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		&member.MemberCode, &firstName, &lastName, &member.Email, &member.Phone,
		&invID, &invNumber, &invIssued, &invCreated,
	); err != nil {
		return nil, err
	}

	member.ID = d.MemberID
	member.Name = firstName + " " + lastName
	d.Member = &member

	if invID.Valid {
		d.Invoice = &models.Invoice{
			ID:            invID.String,
			InvoiceNumber: invNumber.String,
			PaymentID:     d.ID,
			IssuedDate:    invIssued.Time,
			CreatedAt:     invCreated.Time,
		}
		d.InvoiceNumber = &d.Invoice.InvoiceNumber
	}
	return &d, nil
}

// Get loads one payment with its member and invoice.
func (s *Service) Get(ctx context.Context, paymentID string) (*models.PaymentDetail, error) {
	d, err := scanDetail(s.DB.QueryRowContext(ctx, detailSelect+" WHERE p.id = ?", paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return d, nil
}

// List returns one page of payments matching q, newest first.
func (s *Service) List(ctx context.Context, q models.PaymentQuery) ([]models.PaymentDetail, models.Pagination, error) {
	q.Normalize()

	var where strings.Builder
	var args []interface{}
	where.WriteString(" WHERE 1=1")

	if q.MemberID != "" {
		where.WriteString(" AND p.member_id = ?")
		args = append(args, q.MemberID)
	}
	if q.Status != "" {
		where.WriteString(" AND p.status = ?")
		args = append(args, q.Status)
	}
	if q.StartDate != nil {
		where.WriteString(" AND p.payment_date >= ?")
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		where.WriteString(" AND p.payment_date <= ?")
		args = append(args, *q.EndDate)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM payments p" + where.String()
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count payments: %w", err)
	}

	listQuery := detailSelect + where.String() + " ORDER BY p.payment_date DESC LIMIT ? OFFSET ?"
	rows, err := s.DB.QueryContext(ctx, listQuery, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.PaymentDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, models.Pagination{}, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	return payments, models.NewPagination(q.Page, q.Limit, total), nil
}

// InvoiceDocument assembles the printable invoice for invoiceID.
func (s *Service) InvoiceDocument(ctx context.Context, invoiceID string) (*invoice.Document, error) {
	query := `
		SELECT i.invoice_number, i.issued_date,
		       p.payment_code, p.payment_method, p.payment_date, p.status, p.amount, p.description,
		       m.member_code, m.first_name, m.last_name, m.email, m.phone
		FROM invoices i
		JOIN payments p ON p.id = i.payment_id
		JOIN members m ON m.id = p.member_id
		WHERE i.id = ?`

	var doc invoice.Document
	var description sql.NullString
	var firstName, lastName string
	err := s.DB.QueryRowContext(ctx, query, invoiceID).Scan(
		&doc.InvoiceNumber, &doc.IssuedDate,
		&doc.PaymentCode, &doc.PaymentMethod, &doc.PaymentDate, &doc.Status, &doc.Amount, &description,
		&doc.MemberCode, &firstName, &lastName, &doc.MemberEmail, &doc.MemberPhone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Invoice not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	doc.Description = description.String
	doc.MemberName = firstName + " " + lastName
	return &doc, nil
}
