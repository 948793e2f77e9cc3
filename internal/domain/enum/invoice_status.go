package enum

// InvoiceStatus represents the lifecycle state of an invoice. Unlike fee
// status it is not derived; transitions happen through the status endpoint.
type InvoiceStatus string

const (
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// Valid reports whether the value is one of the known invoice statuses
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}
