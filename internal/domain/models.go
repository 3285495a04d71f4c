// Package domain defines the persistence models of the franchise billing
// service: customers, their invoices, and payments against those invoices.
// Every row is scoped to a franchise (tenant).
package domain

import "time"

// Invoice statuses.
const (
	InvoiceOpen    = "open"
	InvoicePartial = "partial"
	InvoicePaid    = "paid"
	InvoiceVoid    = "void"
)

// Customer is a billable party of one franchise.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - FranchiseID: owning tenant; part of every unique key.
//   - Email: unique per franchise (uk_email_franchise).
//   - AccountNumber: optional external reference, unique per franchise when set.
//   - Name: display name.
type Customer struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	FranchiseID   string    `json:"franchise_id"   gorm:"type:varchar(64);not null;uniqueIndex:uk_email_franchise,priority:2;uniqueIndex:idx_account_number_franchise,priority:2"`
	Email         string    `json:"email"          gorm:"type:varchar(255);not null;uniqueIndex:uk_email_franchise,priority:1"`
	AccountNumber *string   `json:"account_number,omitempty" gorm:"type:varchar(64);uniqueIndex:idx_account_number_franchise,priority:1"`
	Name          string    `json:"name"           gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Customer.
func (Customer) TableName() string { return "customers" }

// Invoice is an amount owed by a customer. Amounts are in minor units.
// Deleting a customer that still has invoices is rejected by the database
// (ON DELETE RESTRICT).
type Invoice struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FranchiseID string    `json:"franchise_id" gorm:"type:varchar(64);not null;uniqueIndex:uk_invoice_number_franchise,priority:2"`
	CustomerID  string    `json:"customer_id"  gorm:"type:char(36);not null;index:idx_customer_invoices"`
	Number      string    `json:"number"       gorm:"type:varchar(64);not null;uniqueIndex:uk_invoice_number_franchise,priority:1"`
	AmountCents int64     `json:"amount_cents" gorm:"not null;check:chk_invoice_amount,amount_cents > 0"`
	PaidCents   int64     `json:"paid_cents"   gorm:"not null;default:0"`
	Currency    string    `json:"currency"     gorm:"type:char(3);not null;default:'EUR'"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;default:'open';check:chk_invoice_status,status IN ('open','partial','paid','void')"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Customer Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:fk_customer,OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Invoice.
func (Invoice) TableName() string { return "invoices" }

// Balance is the amount still owed.
func (i Invoice) Balance() int64 { return i.AmountCents - i.PaidCents }

// Payment settles part or all of an invoice. The database refuses payments
// that would exceed the invoice balance or that target a void invoice.
type Payment struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FranchiseID string    `json:"franchise_id" gorm:"type:varchar(64);not null"`
	InvoiceID   string    `json:"invoice_id"   gorm:"type:char(36);not null;index:idx_invoice_payments"`
	AmountCents int64     `json:"amount_cents" gorm:"not null;check:chk_payment_amount,amount_cents > 0"`
	Method      string    `json:"method"       gorm:"type:varchar(16);not null;default:'card'"`
	Reference   string    `json:"reference,omitempty" gorm:"type:varchar(128)"`
	CreatedAt   time.Time `json:"created_at"`

	Invoice Invoice `json:"-" gorm:"foreignKey:InvoiceID;references:ID;constraint:fk_invoice,OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }
