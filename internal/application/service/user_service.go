package service

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/google/uuid"
)

// UserService handles user accounts and parent-student links
type UserService struct {
	userRepo       repository.UserRepository
	parentLinkRepo repository.ParentLinkRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, parentLinkRepo repository.ParentLinkRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		parentLinkRepo: parentLinkRepo,
	}
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
	Standard *string
	Division *string
	CustomID *string
}

// CreateUser creates a new account. Students must carry a standard; other
// roles must not.
func (s *UserService) CreateUser(ctx context.Context, principal entity.Principal, input *CreateUserInput) (*entity.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperror.NewValidationError("name, email, password and role are required")
	}
	if !input.Role.Valid() {
		return nil, apperror.NewValidationError("role must be one of admin, teacher, student, parent")
	}
	if input.Role == enum.RoleStudent && (input.Standard == nil || *input.Standard == "") {
		return nil, apperror.NewValidationError("students require a standard")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     input.Role,
		CustomID: input.CustomID,
	}
	if input.Role == enum.RoleStudent {
		user.Standard = input.Standard
		user.Division = input.Division
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.User, error) {
	if !principal.IsAdmin() && !principal.IsSelf(id) {
		return nil, apperror.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListStudentsByClass returns students of a standard, optionally narrowed to
// one division
func (s *UserService) ListStudentsByClass(ctx context.Context, principal entity.Principal, standard string, division *string) ([]entity.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if standard == "" {
		return nil, apperror.NewValidationError("standard is required")
	}
	return s.userRepo.ListStudentsByClass(ctx, standard, division)
}

// CreateParentLinkInput represents the create parent link input
type CreateParentLinkInput struct {
	ParentID  uuid.UUID
	StudentID uuid.UUID
}

// CreateParentLink grants a parent visibility into a student's fee data
func (s *UserService) CreateParentLink(ctx context.Context, principal entity.Principal, input *CreateParentLinkInput) (*entity.ParentLink, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.ParentID == uuid.Nil || input.StudentID == uuid.Nil {
		return nil, apperror.NewValidationError("parent_id and student_id are required")
	}

	parent, err := s.userRepo.GetByID(ctx, input.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.Role != enum.RoleParent {
		return nil, apperror.NewNotFoundError("Parent")
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != enum.RoleStudent {
		return nil, apperror.NewNotFoundError("Student")
	}

	exists, err := s.parentLinkRepo.Exists(ctx, input.ParentID, input.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Parent is already linked to this student")
	}

	link := &entity.ParentLink{
		ParentID:  input.ParentID,
		StudentID: input.StudentID,
	}
	if err := s.parentLinkRepo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteParentLink revokes a parent's visibility into a student's fee data
func (s *UserService) DeleteParentLink(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	link, err := s.parentLinkRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if link == nil {
		return apperror.NewNotFoundError("Parent link")
	}

	return s.parentLinkRepo.Delete(ctx, id)
}
