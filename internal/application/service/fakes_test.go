package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore is a mutex-guarded in-memory backing store shared by the fake
// repositories, so service tests exercise the ledger invariants without a
// database.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]entity.User
	links        map[uuid.UUID]entity.ParentLink
	structures   map[uuid.UUID]entity.FeeStructure
	fees         map[uuid.UUID]entity.Fee
	payments     map[uuid.UUID]entity.Payment
	discounts    map[uuid.UUID]entity.Discount
	invoices     map[uuid.UUID]entity.Invoice
	invoiceItems map[uuid.UUID][]entity.InvoiceItem
	sequences    map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]entity.User),
		links:        make(map[uuid.UUID]entity.ParentLink),
		structures:   make(map[uuid.UUID]entity.FeeStructure),
		fees:         make(map[uuid.UUID]entity.Fee),
		payments:     make(map[uuid.UUID]entity.Payment),
		discounts:    make(map[uuid.UUID]entity.Discount),
		invoices:     make(map[uuid.UUID]entity.Invoice),
		invoiceItems: make(map[uuid.UUID][]entity.InvoiceItem),
		sequences:    make(map[string]int64),
	}
}

func (s *fakeStore) addStudent(name, standard string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	std := standard
	user := entity.User{ID: uuid.New(), Name: name, Email: name + "@school.test", Role: enum.RoleStudent, Standard: &std}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addUser(name string, role enum.Role) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := entity.User{ID: uuid.New(), Name: name, Email: name + "@school.test", Role: role}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addStructure(standard, feeName string, amount decimal.Decimal, academicYear string) entity.FeeStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	structure := entity.FeeStructure{
		ID: uuid.New(), Standard: standard, FeeName: feeName,
		Amount: amount, AcademicYear: academicYear, IsMandatory: true, IsActive: true,
	}
	s.structures[structure.ID] = structure
	return structure
}

func (s *fakeStore) addLink(parentID, studentID uuid.UUID) entity.ParentLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	link := entity.ParentLink{ID: uuid.New(), ParentID: parentID, StudentID: studentID}
	s.links[link.ID] = link
	return link
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.users[id]; ok {
		u := user
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListStudentsByClass(_ context.Context, standard string, division *string) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var students []entity.User
	for _, user := range r.s.users {
		if user.Role != enum.RoleStudent || user.Standard == nil || *user.Standard != standard {
			continue
		}
		if division != nil && (user.Division == nil || *user.Division != *division) {
			continue
		}
		students = append(students, user)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

type fakeParentLinkRepo struct{ s *fakeStore }

func (r *fakeParentLinkRepo) Create(_ context.Context, link *entity.ParentLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.s.links[link.ID] = *link
	return nil
}

func (r *fakeParentLinkRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.links, id)
	return nil
}

func (r *fakeParentLinkRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ParentLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if link, ok := r.s.links[id]; ok {
		l := link
		return &l, nil
	}
	return nil, nil
}

func (r *fakeParentLinkRepo) Exists(_ context.Context, parentID, studentID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, link := range r.s.links {
		if link.ParentID == parentID && link.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeStructureRepo struct{ s *fakeStore }

func (r *fakeStructureRepo) Create(_ context.Context, structure *entity.FeeStructure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if structure.ID == uuid.Nil {
		structure.ID = uuid.New()
	}
	r.s.structures[structure.ID] = *structure
	return nil
}

func (r *fakeStructureRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.FeeStructure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if structure, ok := r.s.structures[id]; ok {
		st := structure
		return &st, nil
	}
	return nil, nil
}

func (r *fakeStructureRepo) ListAll(_ context.Context) ([]entity.FeeStructure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.FeeStructure
	for _, structure := range r.s.structures {
		out = append(out, structure)
	}
	return out, nil
}

func (r *fakeStructureRepo) ListByStandard(_ context.Context, standard string, academicYear *string) ([]entity.FeeStructure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.FeeStructure
	for _, structure := range r.s.structures {
		if structure.Standard != standard || !structure.IsActive {
			continue
		}
		if academicYear != nil && structure.AcademicYear != *academicYear {
			continue
		}
		out = append(out, structure)
	}
	return out, nil
}

func (r *fakeStructureRepo) Update(_ context.Context, structure *entity.FeeStructure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.structures[structure.ID] = *structure
	return nil
}

func (r *fakeStructureRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.structures, id)
	return nil
}

type fakeFeeRepo struct{ s *fakeStore }

func (r *fakeFeeRepo) Create(_ context.Context, fee *entity.Fee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if fee.FeeStructureID != nil {
		for _, existing := range r.s.fees {
			if existing.StudentID == fee.StudentID &&
				existing.FeeStructureID != nil && *existing.FeeStructureID == *fee.FeeStructureID &&
				existing.AcademicYear == fee.AcademicYear {
				return repository.ErrDuplicateAssignment
			}
		}
	}
	if fee.ID == uuid.Nil {
		fee.ID = uuid.New()
	}
	if structure, ok := r.s.structures[derefUUID(fee.FeeStructureID)]; ok {
		st := structure
		fee.FeeStructure = &st
	}
	r.s.fees[fee.ID] = *fee
	return nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func (r *fakeFeeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Fee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if fee, ok := r.s.fees[id]; ok {
		f := fee
		return &f, nil
	}
	return nil, nil
}

func (r *fakeFeeRepo) GetForStudentByID(_ context.Context, id, studentID uuid.UUID) (*entity.Fee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if fee, ok := r.s.fees[id]; ok && fee.StudentID == studentID {
		f := fee
		return &f, nil
	}
	return nil, nil
}

func (r *fakeFeeRepo) GetByIDsForStudent(_ context.Context, ids []uuid.UUID, studentID uuid.UUID) ([]entity.Fee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Fee
	for _, id := range ids {
		if fee, ok := r.s.fees[id]; ok && fee.StudentID == studentID {
			out = append(out, fee)
		}
	}
	return out, nil
}

func (r *fakeFeeRepo) ListForStudent(_ context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Fee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Fee
	for _, fee := range r.s.fees {
		if fee.StudentID != studentID {
			continue
		}
		if academicYear != nil && fee.AcademicYear != *academicYear {
			continue
		}
		out = append(out, fee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *fakeFeeRepo) ListByClass(_ context.Context, standard, academicYear string, division *string) ([]repository.ClassFeeSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byStudent := make(map[uuid.UUID]*repository.ClassFeeSummary)
	for _, fee := range r.s.fees {
		student, ok := r.s.users[fee.StudentID]
		if !ok || student.Standard == nil || *student.Standard != standard || fee.AcademicYear != academicYear {
			continue
		}
		if division != nil && (student.Division == nil || *student.Division != *division) {
			continue
		}
		summary, ok := byStudent[student.ID]
		if !ok {
			summary = &repository.ClassFeeSummary{
				StudentID: student.ID, StudentName: student.Name, Standard: standard,
				TotalDue: decimal.Zero, TotalPaid: decimal.Zero, TotalBalance: decimal.Zero,
			}
			byStudent[student.ID] = summary
		}
		summary.TotalDue = summary.TotalDue.Add(fee.TotalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(fee.PaidAmount)
		summary.TotalBalance = summary.TotalBalance.Add(fee.Balance)
		summary.Fees = append(summary.Fees, fee)
	}
	var out []repository.ClassFeeSummary
	for _, summary := range byStudent {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

func (r *fakeFeeRepo) Update(_ context.Context, fee *entity.Fee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fees[fee.ID] = *fee
	return nil
}

func (r *fakeFeeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.fees, id)
	return nil
}

func (r *fakeFeeRepo) CountByStructure(_ context.Context, structureID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, fee := range r.s.fees {
		if fee.FeeStructureID != nil && *fee.FeeStructureID == structureID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeeRepo) ExistsAssignment(_ context.Context, studentID, structureID uuid.UUID, academicYear string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, fee := range r.s.fees {
		if fee.StudentID == studentID && fee.FeeStructureID != nil &&
			*fee.FeeStructureID == structureID && fee.AcademicYear == academicYear {
			return true, nil
		}
	}
	return false, nil
}

type fakePaymentRepo struct{ s *fakeStore }

// Record mirrors the conditional-update contract: the balance check and the
// ledger mutation happen under one lock, so concurrent payments cannot
// overdraw a fee.
func (r *fakePaymentRepo) Record(_ context.Context, payment *entity.Payment) (*repository.RecordOutcome, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	fee, ok := r.s.fees[payment.FeeID]
	if !ok || fee.StudentID != payment.StudentID {
		return &repository.RecordOutcome{Applied: false, CurrentBalance: decimal.Zero}, nil
	}
	if fee.Balance.LessThan(payment.Amount) {
		return &repository.RecordOutcome{Applied: false, CurrentBalance: fee.Balance}, nil
	}

	fee.PaidAmount = fee.PaidAmount.Add(payment.Amount)
	fee.Balance = fee.Balance.Sub(payment.Amount)
	fee.RecomputeStatus(time.Now())
	r.s.fees[fee.ID] = fee

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	r.s.payments[payment.ID] = *payment

	return &repository.RecordOutcome{Applied: true, CurrentBalance: fee.Balance}, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if payment, ok := r.s.payments[id]; ok {
		p := payment
		return &p, nil
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetByReceipt(_ context.Context, receiptNumber string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, payment := range r.s.payments {
		if payment.ReceiptNumber == receiptNumber {
			p := payment
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) ListForStudent(_ context.Context, studentID uuid.UUID) ([]entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Payment
	for _, payment := range r.s.payments {
		if payment.StudentID == studentID {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePaymentRepo) ListByFeeIDs(_ context.Context, feeIDs []uuid.UUID) ([]entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(feeIDs))
	for _, id := range feeIDs {
		wanted[id] = true
	}
	var out []entity.Payment
	for _, payment := range r.s.payments {
		if wanted[payment.FeeID] {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListRecent(_ context.Context, params *repository.RecentPaymentFilterParams) ([]entity.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Payment
	for _, payment := range r.s.payments {
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))

	page := params.Pagination
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()
	offset := page.Offset()
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > page.PerPage {
		out = out[:page.PerPage]
	}
	return out, total, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.payments[id]
	if !ok {
		return nil
	}
	delete(r.s.payments, id)

	fee, ok := r.s.fees[payment.FeeID]
	if !ok {
		return nil
	}
	paid := decimal.Zero
	for _, p := range r.s.payments {
		if p.FeeID == fee.ID {
			paid = paid.Add(p.Amount)
		}
	}
	fee.PaidAmount = paid
	fee.Balance = fee.TotalAmount.Sub(paid)
	fee.RecomputeStatus(time.Now())
	r.s.fees[fee.ID] = fee
	return nil
}

type fakeDiscountRepo struct{ s *fakeStore }

func (r *fakeDiscountRepo) Create(_ context.Context, discount *entity.Discount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	r.s.discounts[discount.ID] = *discount
	return nil
}

func (r *fakeDiscountRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Discount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if discount, ok := r.s.discounts[id]; ok {
		d := discount
		return &d, nil
	}
	return nil, nil
}

func (r *fakeDiscountRepo) ListForStudent(_ context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Discount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Discount
	for _, discount := range r.s.discounts {
		if discount.StudentID != studentID {
			continue
		}
		if academicYear != nil && discount.AcademicYear != *academicYear {
			continue
		}
		out = append(out, discount)
	}
	return out, nil
}

func (r *fakeDiscountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.discounts, id)
	return nil
}

type fakeInvoiceRepo struct{ s *fakeStore }

func (r *fakeInvoiceRepo) CreateWithItems(_ context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	period := utils.InvoicePeriod(invoice.InvoiceDate)
	r.s.sequences[period]++
	invoice.InvoiceNumber = utils.FormatInvoiceNumber(period, r.s.sequences[period])

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := make([]entity.InvoiceItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New()
		item.InvoiceID = invoice.ID
		stored = append(stored, item)
	}
	invoice.Items = stored
	r.s.invoices[invoice.ID] = *invoice
	r.s.invoiceItems[invoice.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if invoice, ok := r.s.invoices[id]; ok {
		inv := invoice
		inv.Items = r.s.invoiceItems[id]
		return &inv, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, invoiceNumber string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, invoice := range r.s.invoices {
		if invoice.InvoiceNumber == invoiceNumber {
			inv := invoice
			inv.Items = r.s.invoiceItems[id]
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListForStudent(_ context.Context, studentID uuid.UUID) ([]entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Invoice
	for id, invoice := range r.s.invoices {
		if invoice.StudentID == studentID {
			inv := invoice
			inv.Items = r.s.invoiceItems[id]
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClass(_ context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Invoice
	for id, invoice := range r.s.invoices {
		student, ok := r.s.users[invoice.StudentID]
		if !ok {
			continue
		}
		if params.Standard != nil && (student.Standard == nil || *student.Standard != *params.Standard) {
			continue
		}
		if params.Status != nil && invoice.Status != *params.Status {
			continue
		}
		inv := invoice
		inv.Items = r.s.invoiceItems[id]
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if invoice, ok := r.s.invoices[id]; ok {
		invoice.Status = status
		r.s.invoices[id] = invoice
	}
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	delete(r.s.invoiceItems, id)
	return nil
}
