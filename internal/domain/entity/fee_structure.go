package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeStructure is an admin-defined fee template for a standard and academic
// year. Ledger entries are instantiated from it via assignment.
type FeeStructure struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Standard     string          `gorm:"size:20;not null;index" json:"standard"`
	FeeName      string          `gorm:"size:255;not null" json:"fee_name"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	AcademicYear string          `gorm:"size:20;not null;index" json:"academic_year"`
	DueDate      *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	IsMandatory  bool            `gorm:"default:true" json:"is_mandatory"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new fee structure
func (f *FeeStructure) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FeeStructure model
func (FeeStructure) TableName() string {
	return "fee_structures"
}
