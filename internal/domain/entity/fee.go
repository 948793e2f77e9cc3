package entity

import (
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fee is one student's ledger entry for one obligation. The invariant
// balance = total_amount - paid_amount holds at all times; status is derived
// from the amounts and the due date (DeriveFeeStatus).
//
// The unique index on (student_id, fee_structure_id, academic_year) guards
// against double-assignment on every assignment path, single or bulk. Ad hoc
// fees have a NULL fee_structure_id and are not constrained by it.
type Fee struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	StudentID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_fee_assignment" json:"student_id"`
	FeeStructureID *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_fee_assignment" json:"fee_structure_id,omitempty"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance"`
	DueDate        *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	AcademicYear   string          `gorm:"size:20;not null;index;uniqueIndex:idx_fee_assignment" json:"academic_year"`
	Status         enum.FeeStatus  `gorm:"size:20;not null;default:'pending'" json:"status"`
	FeeType        *string         `gorm:"size:100" json:"fee_type,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Student      User          `gorm:"foreignKey:StudentID" json:"-"`
	FeeStructure *FeeStructure `gorm:"foreignKey:FeeStructureID" json:"fee_structure,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:FeeID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new fee
func (f *Fee) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Fee model
func (Fee) TableName() string {
	return "fees"
}

// DeriveFeeStatus computes the status consistent with the amounts and due
// date. Overdue takes precedence over partially_paid when both hold.
func DeriveFeeStatus(total, paid decimal.Decimal, dueDate *time.Time, now time.Time) enum.FeeStatus {
	balance := total.Sub(paid)
	if balance.LessThanOrEqual(decimal.Zero) {
		return enum.FeeStatusPaid
	}
	if dueDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if dueDate.Before(today) {
			return enum.FeeStatusOverdue
		}
	}
	if paid.GreaterThan(decimal.Zero) {
		return enum.FeeStatusPartiallyPaid
	}
	return enum.FeeStatusPending
}

// RecomputeStatus refreshes Status from the fee's own amounts and due date
func (f *Fee) RecomputeStatus(now time.Time) {
	f.Status = DeriveFeeStatus(f.TotalAmount, f.PaidAmount, f.DueDate, now)
}
