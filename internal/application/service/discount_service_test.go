package service

import (
	"context"
	"testing"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newDiscountService(s *fakeStore) *DiscountService {
	return NewDiscountService(&fakeDiscountRepo{s}, &fakeFeeRepo{s}, &fakeParentLinkRepo{s})
}

func TestApplyDiscountValidation(t *testing.T) {
	s := newFakeStore()
	svc := newDiscountService(s)
	admin := adminPrincipal()
	student := s.addStudent("asha", "5")

	cases := []struct {
		name  string
		input ApplyDiscountInput
	}{
		{"missing name", ApplyDiscountInput{StudentID: student.ID, DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(100), AcademicYear: "2024-25"}},
		{"bad type", ApplyDiscountInput{StudentID: student.ID, DiscountName: "X", DiscountType: "half-off", DiscountValue: decimal.NewFromInt(100), AcademicYear: "2024-25"}},
		{"zero value", ApplyDiscountInput{StudentID: student.ID, DiscountName: "X", DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.Zero, AcademicYear: "2024-25"}},
		{"percentage over 100", ApplyDiscountInput{StudentID: student.ID, DiscountName: "X", DiscountType: enum.DiscountTypePercentage, DiscountValue: decimal.NewFromInt(150), AcademicYear: "2024-25"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ApplyDiscount(context.Background(), admin, &tc.input)
			assertAppErrorCode(t, err, 400)
		})
	}
}

func TestApplyDiscountFeeMustBelongToStudent(t *testing.T) {
	s := newFakeStore()
	svc := newDiscountService(s)
	admin := adminPrincipal()

	student := s.addStudent("asha", "5")
	other := s.addStudent("bilal", "5")

	feeSvc := newFeeService(s, false)
	otherFee, err := feeSvc.AddAdhocFee(context.Background(), admin, &AddAdhocFeeInput{
		StudentID: other.ID, FeeType: "Transport", TotalAmount: decimal.NewFromInt(1000), AcademicYear: "2024-25",
	})
	if err != nil {
		t.Fatalf("fee failed: %v", err)
	}

	_, err = svc.ApplyDiscount(context.Background(), admin, &ApplyDiscountInput{
		StudentID: student.ID, FeeID: &otherFee.ID, DiscountName: "Merit",
		DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(100), AcademicYear: "2024-25",
	})
	assertAppErrorCode(t, err, 404)
}

func TestApplyDiscountRequiresAdmin(t *testing.T) {
	s := newFakeStore()
	svc := newDiscountService(s)
	student := s.addStudent("asha", "5")

	_, err := svc.ApplyDiscount(context.Background(),
		entity.Principal{ID: student.ID, Role: enum.RoleStudent},
		&ApplyDiscountInput{
			StudentID: student.ID, DiscountName: "Self Serve",
			DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(100), AcademicYear: "2024-25",
		})
	assertAppErrorCode(t, err, 403)
}

func TestListDiscountsParentScoping(t *testing.T) {
	s := newFakeStore()
	svc := newDiscountService(s)
	admin := adminPrincipal()

	student := s.addStudent("asha", "5")
	parent := s.addUser("parent", enum.RoleParent)
	s.addLink(parent.ID, student.ID)

	_, err := svc.ApplyDiscount(context.Background(), admin, &ApplyDiscountInput{
		StudentID: student.ID, DiscountName: "Sibling",
		DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(250), AcademicYear: "2024-25",
	})
	if err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	discounts, err := svc.ListForStudent(context.Background(),
		entity.Principal{ID: parent.ID, Role: enum.RoleParent}, student.ID, nil)
	if err != nil {
		t.Fatalf("linked parent should see discounts: %v", err)
	}
	if len(discounts) != 1 {
		t.Fatalf("expected 1 discount, got %d", len(discounts))
	}

	stranger := s.addUser("stranger", enum.RoleParent)
	_, err = svc.ListForStudent(context.Background(),
		entity.Principal{ID: stranger.ID, Role: enum.RoleParent}, student.ID, nil)
	assertAppErrorCode(t, err, 403)
}

func TestDeleteDiscount(t *testing.T) {
	s := newFakeStore()
	svc := newDiscountService(s)
	admin := adminPrincipal()
	student := s.addStudent("asha", "5")

	discount, err := svc.ApplyDiscount(context.Background(), admin, &ApplyDiscountInput{
		StudentID: student.ID, DiscountName: "Merit",
		DiscountType: enum.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(100), AcademicYear: "2024-25",
	})
	if err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	if err := svc.DeleteDiscount(context.Background(), admin, discount.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	err = svc.DeleteDiscount(context.Background(), admin, uuid.New())
	assertAppErrorCode(t, err, 404)
}
