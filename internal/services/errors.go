// Package services implements the franchise billing use-cases on top of the
// repo layer.
//
// Services return either a failure.* value built where the problem was
// detected, or the raw repository/driver error. They never map errors to HTTP
// responses; the engine does that.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// Sub-codes of conflicts detected by the services.
const (
	CodeCustomerHasInvoices = "CUSTOMER_HAS_INVOICES"
	CodeInvoiceNotOpen      = "INVOICE_NOT_OPEN"
)

// Resource names used in not-found failures.
const (
	ResourceCustomer = "Customer"
	ResourceInvoice  = "Invoice"
)

// notFound converts a missing-row error into NotFound for resource/id and
// passes every other error through.
func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return failure.NewNotFound(resource, id)
	}
	return err
}
