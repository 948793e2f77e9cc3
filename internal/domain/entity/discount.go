package entity

import (
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount is an adjustment record attached to a student, optionally scoped
// to one fee. Discounts never mutate the fee row; whether they reduce the
// reported effective balance is a deployment decision (FEES_APPLY_DISCOUNTS).
type Discount struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	StudentID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"student_id"`
	FeeID         *uuid.UUID        `gorm:"type:uuid;index" json:"fee_id,omitempty"`
	DiscountName  string            `gorm:"size:255;not null" json:"discount_name"`
	DiscountType  enum.DiscountType `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	AcademicYear  string            `gorm:"size:20;not null;index" json:"academic_year"`
	Reason        *string           `gorm:"type:text" json:"reason,omitempty"`
	CreatedBy     uuid.UUID         `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`

	// Relationships
	Student User `gorm:"foreignKey:StudentID" json:"-"`
	Fee     *Fee `gorm:"foreignKey:FeeID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new discount
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Discount model
func (Discount) TableName() string {
	return "discounts"
}

// AmountAgainst resolves the discount's value against a fee's total amount.
// Fixed discounts return their value; percentage discounts return the
// proportional amount.
func (d *Discount) AmountAgainst(total decimal.Decimal) decimal.Decimal {
	if d.DiscountType == enum.DiscountTypePercentage {
		return total.Mul(d.DiscountValue).Div(decimal.NewFromInt(100))
	}
	return d.DiscountValue
}

// AppliesTo reports whether the discount covers the given fee: either it is
// scoped to that fee or it is student-wide (nil fee_id).
func (d *Discount) AppliesTo(feeID uuid.UUID) bool {
	return d.FeeID == nil || *d.FeeID == feeID
}
