package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/services"
)

//
// Service contracts (context-aware)
//

// CustomerService defines customer operations consumed by the handlers.
type CustomerService interface {
	Create(ctx context.Context, franchiseID string, in services.NewCustomer) (*domain.Customer, error)
	Get(ctx context.Context, franchiseID, id string) (*domain.Customer, error)
	ListPage(ctx context.Context, franchiseID string, page, pageSize int) ([]domain.Customer, int64, error)
	Delete(ctx context.Context, franchiseID, id string) error
}

// InvoiceService defines invoice operations consumed by the handlers.
type InvoiceService interface {
	Create(ctx context.Context, franchiseID string, in services.NewInvoice) (*domain.Invoice, error)
	Get(ctx context.Context, franchiseID, id string) (*domain.Invoice, error)
	Void(ctx context.Context, franchiseID, id string) (*domain.Invoice, error)
}

// PaymentService records payments.
type PaymentService interface {
	Pay(ctx context.Context, franchiseID, invoiceID string, in services.NewPayment) (*domain.Payment, *domain.Invoice, error)
}

//
// Handler wiring
//

// Handlers groups the billing endpoints.
type Handlers struct {
	fail        Failer
	customerSvc CustomerService
	invoiceSvc  InvoiceService
	paymentSvc  PaymentService
}

// New constructs Handlers bound to the given failure translator and services.
func New(fail Failer, customers CustomerService, invoices InvoiceService, payments PaymentService) *Handlers {
	RegisterValidation()
	return &Handlers{fail: fail, customerSvc: customers, invoiceSvc: invoices, paymentSvc: payments}
}

//
// DTOs
//

// CreateCustomerRequest is the JSON payload for creating a customer.
type CreateCustomerRequest struct {
	Email         string `json:"email"          binding:"required,email,max=255" example:"jane@example.com"`
	Name          string `json:"name"           binding:"required,min=1,max=255" example:"Jane Doe"`
	AccountNumber string `json:"account_number" binding:"omitempty,max=64"       example:"ACC-1001"`
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers  []domain.Customer `json:"customers"`
	Pagination Pagination        `json:"pagination"`
}

// CreateInvoiceRequest is the JSON payload for issuing an invoice.
type CreateInvoiceRequest struct {
	CustomerID  string     `json:"customer_id"  binding:"required,max=36"            example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Number      string     `json:"number"       binding:"required,min=1,max=64"      example:"INV-2025-0001"`
	AmountCents int64      `json:"amount_cents" binding:"required,gt=0"              example:"12500"`
	Currency    string     `json:"currency"     binding:"omitempty,len=3,alpha"      example:"EUR"`
	DueDate     *time.Time `json:"due_date"     binding:"omitempty"                  example:"2025-02-01T00:00:00Z"`
}

// CreatePaymentRequest is the JSON payload for paying an invoice.
type CreatePaymentRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"                          example:"5000"`
	Method      string `json:"method"       binding:"omitempty,oneof=card cash transfer"     example:"card"`
	Reference   string `json:"reference"    binding:"omitempty,max=128"                      example:"txn_123"`
}

// PaymentResponse carries the payment and the invoice after it was applied.
type PaymentResponse struct {
	Payment domain.Payment `json:"payment"`
	Invoice domain.Invoice `json:"invoice"`
}
