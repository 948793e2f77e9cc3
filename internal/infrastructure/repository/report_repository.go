package repository

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) PendingFees(ctx context.Context, params *domainRepo.PendingFeeFilterParams) ([]domainRepo.PendingFeeRow, int64, error) {
	query := r.db.WithContext(ctx).
		Table("fees").
		Joins("JOIN users ON users.id = fees.student_id").
		Joins("LEFT JOIN fee_structures ON fee_structures.id = fees.fee_structure_id").
		Where("fees.balance > 0")

	if params.Standard != nil {
		query = query.Where("users.standard = ?", *params.Standard)
	}
	if params.AcademicYear != nil {
		query = query.Where("fees.academic_year = ?", *params.AcademicYear)
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

	var rows []domainRepo.PendingFeeRow
	err := query.
		Select(`fees.id AS fee_id,
			fees.student_id,
			users.name AS student_name,
			COALESCE(users.standard, '') AS standard,
			COALESCE(users.division, '') AS division,
			COALESCE(fee_structures.fee_name, COALESCE(fees.fee_type, 'Ad hoc fee')) AS fee_name,
			fees.academic_year,
			fees.balance,
			fees.due_date,
			fees.status`).
		Order("fees.due_date ASC NULLS LAST, users.name ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Scan(&rows).Error
	return rows, total, err
}

func (r *reportRepository) CollectionSummary(ctx context.Context, startDate, endDate *time.Time) (*domainRepo.CollectionSummary, error) {
	summary := &domainRepo.CollectionSummary{}

	base := r.db.WithContext(ctx).Model(&entity.Payment{})
	if startDate != nil {
		base = base.Where("payment_date >= ?", *startDate)
	}
	if endDate != nil {
		base = base.Where("payment_date <= ?", *endDate)
	}

	var total struct {
		Amount decimal.Decimal
		Count  int64
	}
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	summary.TotalCollected = total.Amount
	summary.PaymentCount = total.Count

	if err := base.Session(&gorm.Session{}).
		Select("payment_method, COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Group("payment_method").
		Order("payment_method ASC").
		Scan(&summary.ByMethod).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *reportRepository) ClassCollection(ctx context.Context, academicYear string) ([]domainRepo.ClassCollectionRow, error) {
	var rows []domainRepo.ClassCollectionRow
	err := r.db.WithContext(ctx).
		Table("fees").
		Select(`COALESCE(users.standard, '') AS standard,
			COUNT(DISTINCT fees.student_id) AS student_count,
			COALESCE(SUM(fees.total_amount), 0) AS total_due,
			COALESCE(SUM(fees.paid_amount), 0) AS total_paid,
			COALESCE(SUM(fees.balance), 0) AS total_balance`).
		Joins("JOIN users ON users.id = fees.student_id").
		Where("fees.academic_year = ?", academicYear).
		Group("users.standard").
		Order("users.standard ASC").
		Scan(&rows).Error
	return rows, err
}
