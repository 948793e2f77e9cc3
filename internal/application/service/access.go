package service

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/google/uuid"
)

// studentAccess decides who may read a student's fee data: an admin, the
// student themselves, or a parent linked to that student. Parents without a
// link are rejected; the bare role is not enough.
type studentAccess struct {
	parentLinkRepo repository.ParentLinkRepository
}

func newStudentAccess(parentLinkRepo repository.ParentLinkRepository) *studentAccess {
	return &studentAccess{parentLinkRepo: parentLinkRepo}
}

func (a *studentAccess) canView(ctx context.Context, principal entity.Principal, studentID uuid.UUID) error {
	if principal.IsAdmin() || principal.IsSelf(studentID) {
		return nil
	}
	if principal.Role == enum.RoleParent {
		linked, err := a.parentLinkRepo.Exists(ctx, principal.ID, studentID)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}
		return apperror.NewForbiddenError("You are not linked to this student")
	}
	return apperror.ErrForbidden
}

// requireAdmin rejects every principal that is not an admin
func requireAdmin(principal entity.Principal) error {
	if !principal.IsAdmin() {
		return apperror.NewForbiddenError("Admin access required")
	}
	return nil
}
