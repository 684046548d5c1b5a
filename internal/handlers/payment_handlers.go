package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/invoice"
	"github.com/01moynul/strongx-golang/internal/models"
)

// GetPayments lists payments with optional member/status/date filters.
func (h *Handlers) GetPayments(c *gin.Context) {
	var q models.PaymentQuery
	if !bindQuery(c, &q) {
		return
	}

	payments, page, err := h.Billing.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondList(c, payments, page)
}

// GetPayment returns one payment with its member and invoice.
func (h *Handlers) GetPayment(c *gin.Context) {
	p, err := h.Billing.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// CreatePayment records a payment, issues its invoice and renews the plan if one is given.
func (h *Handlers) CreatePayment(c *gin.Context) {
	var input models.CreatePaymentInput
	if !bindJSON(c, &input) {
		return
	}

	p, err := h.Billing.RecordPayment(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

// RefundPayment marks a COMPLETED payment REFUNDED.
func (h *Handlers) RefundPayment(c *gin.Context) {
	p, err := h.Billing.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p, "message": "Payment refunded successfully"})
}

// GetInvoicePDF streams the invoice as a PDF download.
func (h *Handlers) GetInvoicePDF(c *gin.Context) {
	doc, err := h.Billing.InvoiceDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Render fully before writing so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := invoice.Render(&buf, *doc); err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename()+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
