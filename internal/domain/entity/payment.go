package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an immutable receipt against one fee ledger entry. It is never
// updated; an admin may delete it, which recomputes the affected fee.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FeeID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"fee_id"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	TransactionID *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	ReceiptNumber string          `gorm:"size:50;unique;not null" json:"receipt_number"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Fee     Fee  `gorm:"foreignKey:FeeID" json:"-"`
	Student User `gorm:"foreignKey:StudentID" json:"-"`
	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
