package entity

import (
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice bundles one or more outstanding fee balances for a student into a
// numbered billing document. Its items are an immutable snapshot: later
// payments against the underlying fees do not change item amounts.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:50;unique;not null" json:"invoice_number"`
	StudentID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"student_id"`
	InvoiceDate   time.Time          `gorm:"type:date;not null" json:"invoice_date"`
	DueDate       *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        enum.InvoiceStatus `gorm:"size:20;not null;default:'issued'" json:"status"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Student User          `gorm:"foreignKey:StudentID" json:"-"`
	Items   []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem snapshots one fee's balance at invoice generation time
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	FeeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"fee_id"`
	FeeName   string          `gorm:"size:255;not null" json:"fee_name"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Fee     *Fee    `gorm:"foreignKey:FeeID" json:"fee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceSequence is the per-period counter backing invoice numbers. The
// period key is YYYYMM, so the four digit suffix resets each month; the
// counter is bumped atomically inside the invoice-create transaction.
type InvoiceSequence struct {
	Period  string `gorm:"size:6;primary_key" json:"period"`
	LastSeq int64  `gorm:"not null;default:0" json:"last_seq"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
