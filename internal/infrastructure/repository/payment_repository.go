package repository

import (
	"context"
	"errors"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

// Record applies the payment to the ledger and inserts the receipt in one
// transaction. The guard `balance >= amount` lives in the UPDATE itself, so
// concurrent payments against the same fee serialize on the row and at most
// one can take the remaining balance.
func (r *paymentRepository) Record(ctx context.Context, payment *entity.Payment) (*domainRepo.RecordOutcome, error) {
	outcome := &domainRepo.RecordOutcome{CurrentBalance: decimal.Zero}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Fee{}).
			Where("id = ? AND student_id = ? AND balance >= ?", payment.FeeID, payment.StudentID, payment.Amount).
			Updates(map[string]interface{}{
				"paid_amount": gorm.Expr("paid_amount + ?", payment.Amount),
				"balance":     gorm.Expr("balance - ?", payment.Amount),
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Either the fee does not exist for this student or the amount
			// exceeds the balance. Report the live balance and leave the
			// ledger untouched.
			var fee entity.Fee
			err := tx.First(&fee, "id = ? AND student_id = ?", payment.FeeID, payment.StudentID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			outcome.CurrentBalance = fee.Balance
			return nil
		}

		var fee entity.Fee
		if err := tx.First(&fee, "id = ?", payment.FeeID).Error; err != nil {
			return err
		}
		fee.RecomputeStatus(time.Now())
		if err := tx.Model(&entity.Fee{}).Where("id = ?", fee.ID).Update("status", fee.Status).Error; err != nil {
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		outcome.Applied = true
		outcome.CurrentBalance = fee.Balance
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Fee").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) GetByReceipt(ctx context.Context, receiptNumber string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Fee").
		Preload("Fee.FeeStructure").
		Preload("Creator").
		First(&payment, "receipt_number = ?", receiptNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Fee").
		Preload("Fee.FeeStructure").
		Preload("Creator").
		Where("student_id = ?", studentID).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByFeeIDs(ctx context.Context, feeIDs []uuid.UUID) ([]entity.Payment, error) {
	if len(feeIDs) == 0 {
		return nil, nil
	}
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("fee_id IN ?", feeIDs).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListRecent(ctx context.Context, params *domainRepo.RecentPaymentFilterParams) ([]entity.Payment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Joins("Student")

	if params.Standard != nil {
		query = query.Where(`"Student".standard = ?`, *params.Standard)
	}
	if params.Division != nil {
		query = query.Where(`"Student".division = ?`, *params.Division)
	}
	if params.StartDate != nil {
		query = query.Where("payment_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("payment_date <= ?", *params.EndDate)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Pagination
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()

	var payments []entity.Payment
	err := query.
		Preload("Fee").
		Preload("Fee.FeeStructure").
		Order("payments.payment_date DESC, payments.created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&payments).Error
	return payments, total, err
}

// Delete removes the receipt and rebuilds the affected fee's paid amount,
// balance and status from the surviving payments, scoped to that fee only.
func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment entity.Payment
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&entity.Payment{}, "id = ?", id).Error; err != nil {
			return err
		}

		var paid decimal.NullDecimal
		if err := tx.Model(&entity.Payment{}).
			Select("SUM(amount)").
			Where("fee_id = ?", payment.FeeID).
			Scan(&paid).Error; err != nil {
			return err
		}

		var fee entity.Fee
		if err := tx.First(&fee, "id = ?", payment.FeeID).Error; err != nil {
			return err
		}

		fee.PaidAmount = decimal.Zero
		if paid.Valid {
			fee.PaidAmount = paid.Decimal
		}
		fee.Balance = fee.TotalAmount.Sub(fee.PaidAmount)
		fee.RecomputeStatus(time.Now())

		return tx.Model(&entity.Fee{}).Where("id = ?", fee.ID).Updates(map[string]interface{}{
			"paid_amount": fee.PaidAmount,
			"balance":     fee.Balance,
			"status":      fee.Status,
		}).Error
	})
}
