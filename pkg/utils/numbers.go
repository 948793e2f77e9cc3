package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNumber generates a unique payment receipt number, e.g. RCP-3F2A91BC04D7.
func NewReceiptNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RCP-" + strings.ToUpper(raw[:12])
}

// InvoicePeriod returns the YYYYMM period key used for invoice sequencing.
func InvoicePeriod(t time.Time) string {
	return t.Format("200601")
}

// FormatInvoiceNumber builds an invoice number from a period key and a
// per-period sequence, e.g. INV-202409-0001. The sequence is zero-padded to
// four digits; it keeps growing past 9999 without truncation.
func FormatInvoiceNumber(period string, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", period, seq)
}
