package models

import "time"

// Payment statuses.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Payment defines the model for the 'payments' table
type Payment struct {
	ID            string    `json:"id" db:"id"`
	PaymentCode   string    `json:"paymentId" db:"payment_code"` // e.g. PAY-0001
	MemberID      string    `json:"memberId" db:"member_id"`
	Amount        float64   `json:"amount" db:"amount"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"`
	PaymentDate   time.Time `json:"paymentDate" db:"payment_date"`
	Status        string    `json:"status" db:"status"`
	Description   *string   `json:"description" db:"description"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Invoice defines the model for the 'invoices' table
type Invoice struct {
	ID            string    `json:"id" db:"id"`
	InvoiceNumber string    `json:"invoiceNumber" db:"invoice_number"` // e.g. INV-0001
	PaymentID     string    `json:"paymentId" db:"payment_id"`
	IssuedDate    time.Time `json:"issuedDate" db:"issued_date"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// PaymentDetail is a payment joined with its member and invoice.
type PaymentDetail struct {
	Payment
	Member        *MemberSummary     `json:"member,omitempty"`
	Invoice       *Invoice           `json:"invoice"`
	InvoiceNumber *string            `json:"invoiceNumber"`
	Membership    *MembershipHistory `json:"membership,omitempty"`
}

// CreatePaymentInput is the body of POST /api/payments.
type CreatePaymentInput struct {
	MemberID      string  `json:"memberId" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" binding:"required,oneof=CASH CARD BANK_TRANSFER ONLINE"`
	Description   *string `json:"description"`
	PlanID        *string `json:"planId" binding:"omitempty,uuid"`
}

// PaymentQuery is the query string of GET /api/payments.
type PaymentQuery struct {
	PageQuery
	MemberID  string     `form:"memberId" binding:"omitempty,uuid"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02T15:04:05Z07:00"`
}
