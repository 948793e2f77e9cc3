package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newInvoiceFixture(t *testing.T) (*fakeStore, *InvoiceService, entity.Principal, entity.User, []*entity.Fee) {
	t.Helper()
	s := newFakeStore()
	admin := adminPrincipal()

	student := s.addStudent("asha", "5")
	tuition := s.addStructure("5", "Tuition Fee", decimal.NewFromInt(100), "2024-25")
	transport := s.addStructure("5", "Transport Fee", decimal.NewFromInt(250), "2024-25")

	feeSvc := newFeeService(s, false)
	var fees []*entity.Fee
	for _, structure := range []entity.FeeStructure{tuition, transport} {
		fee, err := feeSvc.AssignFee(context.Background(), admin,
			&AssignFeeInput{StudentID: student.ID, FeeStructureID: structure.ID, AcademicYear: "2024-25"})
		if err != nil {
			t.Fatalf("assignment failed: %v", err)
		}
		fees = append(fees, fee)
	}

	svc := NewInvoiceService(&fakeInvoiceRepo{s}, &fakeFeeRepo{s}, &fakePaymentRepo{s}, &fakeParentLinkRepo{s})
	return s, svc, admin, student, fees
}

func TestCreateInvoiceSnapshotsBalances(t *testing.T) {
	_, svc, admin, student, fees := newInvoiceFixture(t)

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID,
		FeeIDs:    []uuid.UUID{fees[0].ID, fees[1].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	if !invoice.TotalAmount.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected total 350, got %s", invoice.TotalAmount)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
	if invoice.Status != enum.InvoiceStatusIssued {
		t.Fatalf("expected issued, got %s", invoice.Status)
	}

	wanted := fmt.Sprintf("INV-%s-0001", utils.InvoicePeriod(time.Now()))
	if invoice.InvoiceNumber != wanted {
		t.Fatalf("expected invoice number %s, got %s", wanted, invoice.InvoiceNumber)
	}
}

func TestCreateInvoiceBackdatedUsesOwnPeriod(t *testing.T) {
	_, svc, admin, student, fees := newInvoiceFixture(t)

	backdated := time.Now().AddDate(0, -2, 0)
	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID:   student.ID,
		FeeIDs:      []uuid.UUID{fees[0].ID},
		InvoiceDate: &backdated,
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	// The number is sequenced in the backdated month, not the current one.
	wanted := fmt.Sprintf("INV-%s-0001", utils.InvoicePeriod(backdated))
	if invoice.InvoiceNumber != wanted {
		t.Fatalf("expected invoice number %s, got %s", wanted, invoice.InvoiceNumber)
	}
	if !invoice.InvoiceDate.Equal(backdated) {
		t.Fatalf("expected invoice date %v, got %v", backdated, invoice.InvoiceDate)
	}

	// A current-dated invoice starts its own month at 0001.
	current, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[1].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}
	if got, want := current.InvoiceNumber, fmt.Sprintf("INV-%s-0001", utils.InvoicePeriod(time.Now())); got != want {
		t.Fatalf("expected invoice number %s, got %s", want, got)
	}
}

func TestCreateInvoiceSequenceIncrementsWithinPeriod(t *testing.T) {
	_, svc, admin, student, fees := newInvoiceFixture(t)

	first, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[0].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}
	second, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[1].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	period := utils.InvoicePeriod(time.Now())
	if first.InvoiceNumber != fmt.Sprintf("INV-%s-0001", period) {
		t.Fatalf("unexpected first number %s", first.InvoiceNumber)
	}
	if second.InvoiceNumber != fmt.Sprintf("INV-%s-0002", period) {
		t.Fatalf("unexpected second number %s", second.InvoiceNumber)
	}
}

func TestCreateInvoiceDropsForeignFees(t *testing.T) {
	s, svc, admin, student, fees := newInvoiceFixture(t)

	other := s.addStudent("bilal", "5")
	feeSvc := newFeeService(s, false)
	otherFee, err := feeSvc.AddAdhocFee(context.Background(), admin, &AddAdhocFeeInput{
		StudentID: other.ID, FeeType: "Lab Damage", TotalAmount: decimal.NewFromInt(999), AcademicYear: "2024-25",
	})
	if err != nil {
		t.Fatalf("ad hoc fee failed: %v", err)
	}

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID,
		FeeIDs:    []uuid.UUID{fees[0].ID, otherFee.ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}
	if len(invoice.Items) != 1 {
		t.Fatalf("foreign fee must be dropped, got %d items", len(invoice.Items))
	}
	if !invoice.TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100, got %s", invoice.TotalAmount)
	}
}

func TestCreateInvoiceWithNoOwnedFees(t *testing.T) {
	_, svc, admin, student, _ := newInvoiceFixture(t)

	_, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{uuid.New()},
	})
	assertAppErrorCode(t, err, 404)
}

func TestInvoiceItemsAreImmutableSnapshots(t *testing.T) {
	s, svc, admin, student, fees := newInvoiceFixture(t)

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[0].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	// Paying down the fee afterwards must not alter the invoiced amount.
	paySvc := NewPaymentService(&fakePaymentRepo{s}, &fakeFeeRepo{s}, &fakeParentLinkRepo{s})
	_, err = paySvc.RecordPayment(context.Background(), admin, &RecordPaymentInput{
		FeeID: fees[0].ID, StudentID: student.ID, Amount: decimal.NewFromInt(60), PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	detail, err := svc.GetByIdentifier(context.Background(), admin, invoice.ID.String())
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !detail.Invoice.Items[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("item amount changed after payment: %s", detail.Invoice.Items[0].Amount)
	}
	if len(detail.Payments) != 1 {
		t.Fatalf("expected the payment attached to the invoice detail, got %d", len(detail.Payments))
	}
}

func TestGetInvoiceByNumber(t *testing.T) {
	_, svc, admin, student, fees := newInvoiceFixture(t)

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[0].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	detail, err := svc.GetByIdentifier(context.Background(), admin, invoice.InvoiceNumber)
	if err != nil {
		t.Fatalf("lookup by number failed: %v", err)
	}
	if detail.Invoice.ID != invoice.ID {
		t.Fatal("wrong invoice returned")
	}

	_, err = svc.GetByIdentifier(context.Background(), admin, "INV-999999-0001")
	assertAppErrorCode(t, err, 404)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	_, svc, admin, student, fees := newInvoiceFixture(t)

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[0].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), admin, invoice.ID, enum.InvoiceStatusCancelled)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if updated.Status != enum.InvoiceStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), admin, invoice.ID, enum.InvoiceStatus("bogus"))
	assertAppErrorCode(t, err, 400)
}

func TestDeleteInvoiceLeavesLedgerIntact(t *testing.T) {
	s, svc, admin, student, fees := newInvoiceFixture(t)

	paySvc := NewPaymentService(&fakePaymentRepo{s}, &fakeFeeRepo{s}, &fakeParentLinkRepo{s})
	payment, err := paySvc.RecordPayment(context.Background(), admin, &RecordPaymentInput{
		FeeID: fees[0].ID, StudentID: student.ID, Amount: decimal.NewFromInt(40), PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	invoice, err := svc.CreateInvoice(context.Background(), admin, &CreateInvoiceInput{
		StudentID: student.ID, FeeIDs: []uuid.UUID{fees[0].ID, fees[1].ID},
	})
	if err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	if err := svc.DeleteInvoice(context.Background(), admin, invoice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// Fees and payments survive the invoice deletion.
	fee, _ := (&fakeFeeRepo{s}).GetByID(context.Background(), fees[0].ID)
	if fee == nil {
		t.Fatal("fee deleted alongside invoice")
	}
	if !fee.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("fee balance changed: %s", fee.Balance)
	}
	survivor, _ := (&fakePaymentRepo{s}).GetByID(context.Background(), payment.ID)
	if survivor == nil {
		t.Fatal("payment deleted alongside invoice")
	}

	_, err = svc.GetByIdentifier(context.Background(), admin, invoice.ID.String())
	assertAppErrorCode(t, err, 404)
}
