package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// CreateWithItems allocates the invoice number and writes header and items in
// one transaction. The sequence bump is a single upsert-returning statement,
// so concurrent invoice creation in the same period can never yield duplicate
// numbers; a failed insert rolls the bump back with the rest.
func (r *invoiceRepository) CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		period := utils.InvoicePeriod(invoice.InvoiceDate)

		var seq int64
		if err := tx.Raw(`
			INSERT INTO invoice_sequences (period, last_seq) VALUES (?, 1)
			ON CONFLICT (period) DO UPDATE SET last_seq = invoice_sequences.last_seq + 1
			RETURNING last_seq`, period).Scan(&seq).Error; err != nil {
			return err
		}
		invoice.InvoiceNumber = utils.FormatInvoiceNumber(period, seq)

		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Fee").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Fee").
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ?", studentID).
		Order("invoice_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListByClass(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	query := r.db.WithContext(ctx).Joins("Student").Preload("Items")

	if params.Standard != nil {
		query = query.Where(`"Student".standard = ?`, *params.Standard)
	}
	if params.Division != nil {
		query = query.Where(`"Student".division = ?`, *params.Division)
	}
	if params.Status != nil {
		query = query.Where("invoices.status = ?", *params.Status)
	}

	err := query.Order("invoices.invoice_date DESC, invoices.created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}
