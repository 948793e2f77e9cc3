package enum

// FeeStatus represents the derived state of a fee ledger entry.
// It is always consistent with paid_amount/total_amount/due_date
// (see entity.DeriveFeeStatus).
type FeeStatus string

const (
	FeeStatusPending       FeeStatus = "pending"
	FeeStatusPartiallyPaid FeeStatus = "partially_paid"
	FeeStatusPaid          FeeStatus = "paid"
	FeeStatusOverdue       FeeStatus = "overdue"
)

func (s FeeStatus) String() string {
	return string(s)
}

// Valid reports whether the value is one of the known fee statuses
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusPending, FeeStatusPartiallyPaid, FeeStatusPaid, FeeStatusOverdue:
		return true
	}
	return false
}
