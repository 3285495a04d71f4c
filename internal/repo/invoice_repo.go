package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
)

// CreateInvoice inserts inv. The customer reference is not checked here: an
// unknown customer surfaces as the driver's foreign key error.
func CreateInvoice(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceOpen
	}
	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now
	return db.WithContext(ctx).Create(inv).Error
}

// GetInvoice fetches an invoice of franchiseID by id.
func GetInvoice(ctx context.Context, db *gorm.DB, franchiseID, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ? AND franchise_id = ?", id, franchiseID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CountInvoicesForCustomer returns how many invoices reference customerID.
func CountInvoicesForCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("customer_id = ?", customerID).
		Count(&n).Error
	return n, err
}

// VoidInvoice marks an open invoice void. Paid or partially paid invoices are
// left untouched and ErrNotFound is returned when no open invoice matched.
func VoidInvoice(ctx context.Context, db *gorm.DB, franchiseID, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ? AND franchise_id = ? AND status = ?", id, franchiseID, domain.InvoiceOpen).
		Updates(map[string]any{"status": domain.InvoiceVoid, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
