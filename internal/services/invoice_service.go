// This file implements InvoiceService and PaymentService.

package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/failure"
	"github.com/tbourn/go-billing-errors/internal/repo"
)

// NewInvoice is the input of InvoiceService.Create.
type NewInvoice struct {
	CustomerID  string
	Number      string
	AmountCents int64
	Currency    string
	DueDate     *time.Time
}

// InvoiceService issues and voids invoices. The customer reference is not
// pre-checked: an unknown customer surfaces as the database's foreign key
// violation.
type InvoiceService struct {
	DB *gorm.DB

	// MaxAmountCents caps a single invoice; zero disables the cap.
	MaxAmountCents int64
	// TermDays sets the due date when none is given.
	TermDays int
	// Now overrides the clock (tests).
	Now func() time.Time
}

// NewInvoiceService constructs an InvoiceService with default limits.
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, MaxAmountCents: 100_000_000, TermDays: 30, Now: time.Now}
}

// Create issues an invoice for franchiseID.
func (s *InvoiceService) Create(ctx context.Context, franchiseID string, in NewInvoice) (*domain.Invoice, error) {
	if s.MaxAmountCents > 0 && in.AmountCents > s.MaxAmountCents {
		return nil, failure.NewValidation(map[string]string{
			"amount_cents": "Amount Cents must be at most " + strconv.FormatInt(s.MaxAmountCents, 10),
		})
	}

	now := s.now()
	due := now.AddDate(0, 0, s.TermDays)
	if in.DueDate != nil {
		due = in.DueDate.UTC()
		if due.Before(now.Truncate(24 * time.Hour)) {
			return nil, failure.NewValidation(map[string]string{"due_date": "Due Date cannot be in the past"})
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "EUR"
	}

	inv := &domain.Invoice{
		FranchiseID: franchiseID,
		CustomerID:  in.CustomerID,
		Number:      strings.TrimSpace(in.Number),
		AmountCents: in.AmountCents,
		Currency:    currency,
		DueDate:     due,
	}
	if err := repo.CreateInvoice(ctx, s.DB, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Get returns one invoice or a NotFound failure.
func (s *InvoiceService) Get(ctx context.Context, franchiseID, id string) (*domain.Invoice, error) {
	inv, err := repo.GetInvoice(ctx, s.DB, franchiseID, id)
	if err != nil {
		return nil, notFound(err, ResourceInvoice, id)
	}
	return inv, nil
}

// Void cancels an open invoice. Invoices that already received payments
// cannot be voided.
func (s *InvoiceService) Void(ctx context.Context, franchiseID, id string) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := repo.GetInvoice(ctx, tx, franchiseID, id)
		if err != nil {
			return notFound(err, ResourceInvoice, id)
		}
		if inv.Status != domain.InvoiceOpen {
			return failure.NewConflict("Only open invoices can be voided (status: "+inv.Status+")", CodeInvoiceNotOpen)
		}
		if err := repo.VoidInvoice(ctx, tx, franchiseID, id); err != nil {
			return err
		}
		out, err = repo.GetInvoice(ctx, tx, franchiseID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NewPayment is the input of PaymentService.Pay.
type NewPayment struct {
	AmountCents int64
	Method      string
	Reference   string
}

// PaymentService records payments. Overpayment and payments on void invoices
// are rejected by database triggers; their errors are returned unchanged.
type PaymentService struct {
	DB *gorm.DB
}

// Pay records a payment against invoiceID and returns it together with the
// updated invoice.
func (s *PaymentService) Pay(ctx context.Context, franchiseID, invoiceID string, in NewPayment) (*domain.Payment, *domain.Invoice, error) {
	var (
		p   *domain.Payment
		inv *domain.Invoice
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetInvoice(ctx, tx, franchiseID, invoiceID); err != nil {
			return notFound(err, ResourceInvoice, invoiceID)
		}
		p = &domain.Payment{
			FranchiseID: franchiseID,
			InvoiceID:   invoiceID,
			AmountCents: in.AmountCents,
			Method:      strings.ToLower(strings.TrimSpace(in.Method)),
			Reference:   strings.TrimSpace(in.Reference),
		}
		if err := repo.CreatePayment(ctx, tx, p); err != nil {
			return err
		}
		var err error
		inv, err = repo.GetInvoice(ctx, tx, franchiseID, invoiceID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return p, inv, nil
}
