// This file implements CustomerService: creating, listing, reading and
// deleting the customers of a franchise.

package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/failure"
	"github.com/tbourn/go-billing-errors/internal/utils"
)

// CustomerRepo is the persistence contract CustomerService needs.
type CustomerRepo interface {
	CreateCustomer(ctx context.Context, db *gorm.DB, c *domain.Customer) error
	GetCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) (*domain.Customer, error)
	CountCustomers(ctx context.Context, db *gorm.DB, franchiseID string) (int64, error)
	ListCustomersPage(ctx context.Context, db *gorm.DB, franchiseID string, offset, limit int) ([]domain.Customer, error)
	DeleteCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) error
	CountInvoicesForCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error)
}

// NewCustomer is the input of CustomerService.Create.
type NewCustomer struct {
	Email         string
	Name          string
	AccountNumber string
}

// CustomerService manages customers. Uniqueness of email and account number
// per franchise is left to the database.
type CustomerService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the customer repository.
	Repo CustomerRepo

	// NameMaxLen caps stored names by rune length.
	NameMaxLen int
}

// NewCustomerService constructs a CustomerService with default limits.
func NewCustomerService(db *gorm.DB, r CustomerRepo) *CustomerService {
	return &CustomerService{DB: db, Repo: r, NameMaxLen: 255}
}

// Create inserts a customer for franchiseID. A duplicate email or account
// number comes back as the raw driver error.
func (s *CustomerService) Create(ctx context.Context, franchiseID string, in NewCustomer) (*domain.Customer, error) {
	c := &domain.Customer{
		FranchiseID: franchiseID,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Name:        s.clip(normalizeName(in.Name)),
	}
	if c.Name == "" {
		return nil, failure.NewValidation(map[string]string{"name": "Name is required"})
	}
	if acct := strings.TrimSpace(in.AccountNumber); acct != "" {
		c.AccountNumber = &acct
	}
	if err := s.Repo.CreateCustomer(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one customer or a NotFound failure.
func (s *CustomerService) Get(ctx context.Context, franchiseID, id string) (*domain.Customer, error) {
	c, err := s.Repo.GetCustomer(ctx, s.DB, franchiseID, id)
	if err != nil {
		return nil, notFound(err, ResourceCustomer, id)
	}
	return c, nil
}

// ListPage returns a page of customers and the total count. Invalid
// page/pageSize fall back to defaults.
func (s *CustomerService) ListPage(ctx context.Context, franchiseID string, page, pageSize int) ([]domain.Customer, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = utils.DefaultPageSize
	}
	offset := utils.Offset(page, pageSize)

	total, err := s.Repo.CountCustomers(ctx, s.DB, franchiseID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Customer{}, 0, nil
	}

	items, err := s.Repo.ListCustomersPage(ctx, s.DB, franchiseID, offset, pageSize)
	return items, total, err
}

// Delete removes a customer without invoices. Customers with invoices are
// refused with a CUSTOMER_HAS_INVOICES conflict before touching the database,
// since SQLite reports a restricted delete with the same text as a missing
// reference.
func (s *CustomerService) Delete(ctx context.Context, franchiseID, id string) error {
	if _, err := s.Get(ctx, franchiseID, id); err != nil {
		return err
	}
	n, err := s.Repo.CountInvoicesForCustomer(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return failure.NewConflict("Cannot delete customer with existing invoices", CodeCustomerHasInvoices)
	}
	return notFound(s.Repo.DeleteCustomer(ctx, s.DB, franchiseID, id), ResourceCustomer, id)
}

func (s *CustomerService) clip(name string) string {
	if s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen {
		return string([]rune(name)[:s.NameMaxLen])
	}
	return name
}

// normalizeName trims whitespace and collapses runs of it to one space.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)
