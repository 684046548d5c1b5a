// Package invoice renders payment invoices as PDF documents.
package invoice

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Document is everything printed on one invoice.
type Document struct {
	InvoiceNumber string
	IssuedDate    time.Time
	PaymentCode   string
	PaymentMethod string
	PaymentDate   time.Time
	Status        string
	Amount        float64
	Description   string

	MemberCode  string
	MemberName  string
	MemberEmail string
	MemberPhone string
}

// Filename is the download name for the document.
func (d Document) Filename() string {
	return "invoice-" + d.InvoiceNumber + ".pdf"
}

const (
	brandName  = "StrongX Gym"
	dateLayout = "02 Jan 2006"
)

var (
	brandColor = [3]int{220, 38, 38}
	greyText   = [3]int{107, 114, 128}
)

// Render draws doc as a single A4 page and writes it to w.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.SetAuthor(brandName, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Rect(0, 0, 210, 32, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(20, 10)
	pdf.CellFormat(100, 12, brandName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(70, 12, "INVOICE", "", 1, "R", false, 0, "")

	// Invoice meta
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(20, 42)
	metaRow(pdf, "Invoice No:", doc.InvoiceNumber)
	metaRow(pdf, "Issued:", doc.IssuedDate.Format(dateLayout))
	metaRow(pdf, "Payment ID:", doc.PaymentCode)
	metaRow(pdf, "Paid On:", doc.PaymentDate.Format(dateLayout))
	metaRow(pdf, "Method:", methodLabel(doc.PaymentMethod))

	// Bill to
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", doc.MemberName, doc.MemberCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, doc.MemberEmail, "", 1, "L", false, 0, "")
	if doc.MemberPhone != "" {
		pdf.CellFormat(0, 6, doc.MemberPhone, "", 1, "L", false, 0, "")
	}

	// Line items
	pdf.Ln(8)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 9, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(40, 9, "Amount", "B", 1, "R", true, 0, "")

	desc := doc.Description
	if desc == "" {
		desc = "Membership payment"
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(130, 9, desc, "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, money(doc.Amount), "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 10, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 10, money(doc.Amount), "", 1, "R", false, 0, "")

	// Status badge
	pdf.Ln(6)
	r, g, b := statusColor(doc.Status)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(36, 8, doc.Status, "", 1, "C", true, 0, "")

	// Footer
	pdf.SetTextColor(greyText[0], greyText[1], greyText[2])
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetY(-30)
	pdf.CellFormat(0, 5, "Thank you for training with "+brandName+".", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "This invoice was generated electronically and is valid without a signature.", "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", doc.InvoiceNumber, err)
	}
	return pdf.Output(w)
}

func metaRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// methodLabel turns BANK_TRANSFER into "Bank Transfer".
func methodLabel(m string) string {
	words := strings.Split(strings.ToLower(m), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func statusColor(status string) (int, int, int) {
	switch status {
	case "COMPLETED":
		return 22, 163, 74
	case "REFUNDED":
		return 37, 99, 235
	case "FAILED":
		return 220, 38, 38
	default:
		return 202, 138, 4
	}
}
