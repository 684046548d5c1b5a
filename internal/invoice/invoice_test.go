package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	issued := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return Document{
		InvoiceNumber: "INV-0007",
		IssuedDate:    issued,
		PaymentCode:   "PAY-0007",
		PaymentMethod: "BANK_TRANSFER",
		PaymentDate:   issued,
		Status:        "COMPLETED",
		Amount:        49.99,
		MemberCode:    "SX-0003",
		MemberName:    "Jane Doe",
		MemberEmail:   "jane@example.com",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleDocument()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice-INV-0007.pdf", sampleDocument().Filename())
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "Bank Transfer", methodLabel("BANK_TRANSFER"))
	assert.Equal(t, "Cash", methodLabel("CASH"))
}
