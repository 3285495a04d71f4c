package repo

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/dberr"
	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/failure"
)

func mustCustomer(t *testing.T, db *gorm.DB, franchise, email string) *domain.Customer {
	t.Helper()
	c := &domain.Customer{FranchiseID: franchise, Email: email, Name: "Jane"}
	if err := CreateCustomer(context.Background(), db, c); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	return c
}

func mustInvoice(t *testing.T, db *gorm.DB, c *domain.Customer, number string, amount int64) *domain.Invoice {
	t.Helper()
	inv := &domain.Invoice{FranchiseID: c.FranchiseID, CustomerID: c.ID, Number: number, AmountCents: amount}
	if err := CreateInvoice(context.Background(), db, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return inv
}

// translate runs a raw driver error through the SQLite rules.
func translate(t *testing.T, err error) dberr.Result {
	t.Helper()
	d, ok := dberr.FromError(err)
	if !ok {
		t.Fatalf("not recognized as a database error: %v", err)
	}
	if d.Dialect != dberr.DialectSQLite {
		t.Fatalf("dialect=%q", d.Dialect)
	}
	return dberr.NewExtractor(dberr.DialectSQLite).Extract(d)
}

func TestCustomer_CreateGetListDelete(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	a := mustCustomer(t, db, "f1", "a@x.io")
	mustCustomer(t, db, "f1", "b@x.io")
	mustCustomer(t, db, "f2", "a@x.io")

	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("ID/CreatedAt not assigned: %+v", a)
	}

	got, err := GetCustomer(ctx, db, "f1", a.ID)
	if err != nil || got.Email != "a@x.io" {
		t.Fatalf("GetCustomer: %+v %v", got, err)
	}
	if _, err := GetCustomer(ctx, db, "f2", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-franchise read should be not found, got %v", err)
	}

	n, err := CountCustomers(ctx, db, "f1")
	if err != nil || n != 2 {
		t.Fatalf("CountCustomers=%d err=%v", n, err)
	}
	page, err := ListCustomersPage(ctx, db, "f1", 0, 1)
	if err != nil || len(page) != 1 {
		t.Fatalf("ListCustomersPage: %d %v", len(page), err)
	}

	if err := DeleteCustomer(ctx, db, "f1", a.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if err := DeleteCustomer(ctx, db, "f1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestCustomer_DuplicateEmailTranslates(t *testing.T) {
	db := newTestDB(t, true)
	mustCustomer(t, db, "f1", "a@x.io")

	err := CreateCustomer(context.Background(), db, &domain.Customer{FranchiseID: "f1", Email: "a@x.io", Name: "Dup"})
	if err == nil {
		t.Fatalf("expected unique violation")
	}
	res := translate(t, err)
	if res.Rule != dberr.RuleDuplicate || res.Code != failure.CodeDuplicateEntry || res.Status != http.StatusConflict {
		t.Fatalf("unexpected result: %+v (err=%v)", res, err)
	}
	if res.Message != "A record with this Email already exists" {
		t.Fatalf("message=%q", res.Message)
	}
}

func TestInvoice_UnknownCustomerTranslates(t *testing.T) {
	db := newTestDB(t, true)
	err := CreateInvoice(context.Background(), db, &domain.Invoice{FranchiseID: "f1", CustomerID: "nope", Number: "INV-1", AmountCents: 100})
	if err == nil {
		t.Fatalf("expected FK violation")
	}
	res := translate(t, err)
	if res.Code != failure.CodeForeignKeyViolation || res.Message != dberr.MsgReferenceMissing {
		t.Fatalf("unexpected result: %+v (err=%v)", res, err)
	}
}

func TestCustomer_DeleteWithInvoicesFails(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	c := mustCustomer(t, db, "f1", "a@x.io")
	mustInvoice(t, db, c, "INV-1", 100)

	n, err := CountInvoicesForCustomer(ctx, db, c.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountInvoicesForCustomer=%d err=%v", n, err)
	}
	if err := DeleteCustomer(ctx, db, "f1", c.ID); err == nil {
		t.Fatalf("expected restrict violation")
	}
}

func TestPayment_TriggersApplyAndReject(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	c := mustCustomer(t, db, "f1", "a@x.io")
	inv := mustInvoice(t, db, c, "INV-1", 10000)

	if err := CreatePayment(ctx, db, &domain.Payment{FranchiseID: "f1", InvoiceID: inv.ID, AmountCents: 4000}); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	got, err := GetInvoice(ctx, db, "f1", inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.PaidCents != 4000 || got.Status != domain.InvoicePartial {
		t.Fatalf("after partial payment: %+v", got)
	}

	err = CreatePayment(ctx, db, &domain.Payment{FranchiseID: "f1", InvoiceID: inv.ID, AmountCents: 7000})
	if err == nil {
		t.Fatalf("expected overpayment to be rejected")
	}
	res := translate(t, err)
	if res.Rule != dberr.RuleTrigger || res.Code != "OVERPAYMENT_NOT_ALLOWED" || res.Message != "Overpayment not allowed" {
		t.Fatalf("unexpected result: %+v (err=%v)", res, err)
	}

	if err := CreatePayment(ctx, db, &domain.Payment{FranchiseID: "f1", InvoiceID: inv.ID, AmountCents: 6000}); err != nil {
		t.Fatalf("settling payment: %v", err)
	}
	got, _ = GetInvoice(ctx, db, "f1", inv.ID)
	if got.Balance() != 0 || got.Status != domain.InvoicePaid {
		t.Fatalf("after settling: %+v", got)
	}

	ps, err := ListPayments(ctx, db, inv.ID)
	if err != nil || len(ps) != 2 {
		t.Fatalf("ListPayments: %d %v", len(ps), err)
	}
}

func TestPayment_VoidInvoiceRejected(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	c := mustCustomer(t, db, "f1", "a@x.io")
	inv := mustInvoice(t, db, c, "INV-1", 500)

	if err := VoidInvoice(ctx, db, "f1", inv.ID); err != nil {
		t.Fatalf("VoidInvoice: %v", err)
	}
	if err := VoidInvoice(ctx, db, "f1", inv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("voiding twice should be not found, got %v", err)
	}

	err := CreatePayment(ctx, db, &domain.Payment{FranchiseID: "f1", InvoiceID: inv.ID, AmountCents: 100})
	if err == nil {
		t.Fatalf("expected payment on void invoice to be rejected")
	}
	if res := translate(t, err); res.Code != "INVOICE_IS_VOID" || res.Status != http.StatusConflict {
		t.Fatalf("unexpected result: %+v (err=%v)", res, err)
	}
}

func TestPayment_UnknownInvoiceTranslates(t *testing.T) {
	db := newTestDB(t, true)
	err := CreatePayment(context.Background(), db, &domain.Payment{FranchiseID: "f1", InvoiceID: "missing", AmountCents: 100})
	if err == nil {
		t.Fatalf("expected FK violation")
	}
	if res := translate(t, err); res.Code != failure.CodeForeignKeyViolation {
		t.Fatalf("unexpected result: %+v (err=%v)", res, err)
	}
}
