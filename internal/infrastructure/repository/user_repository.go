package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) ListStudentsByClass(ctx context.Context, standard string, division *string) ([]entity.User, error) {
	var students []entity.User
	query := r.db.WithContext(ctx).
		Where("role = ? AND standard = ?", enum.RoleStudent, standard)
	if division != nil {
		query = query.Where("division = ?", *division)
	}
	err := query.Order("name ASC").Find(&students).Error
	return students, err
}

type parentLinkRepository struct {
	db *gorm.DB
}

// NewParentLinkRepository creates a new parent link repository
func NewParentLinkRepository(db *gorm.DB) domainRepo.ParentLinkRepository {
	return &parentLinkRepository{db: db}
}

func (r *parentLinkRepository) Create(ctx context.Context, link *entity.ParentLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *parentLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ParentLink{}, "id = ?", id).Error
}

func (r *parentLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ParentLink, error) {
	var link entity.ParentLink
	err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &link, err
}

func (r *parentLinkRepository) Exists(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ParentLink{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	return count > 0, err
}
