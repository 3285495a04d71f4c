package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
)

// CreatePayment inserts p. Balance and status checks are done by the
// database triggers installed in AutoMigrate, which also apply the amount to
// the invoice.
func CreatePayment(ctx context.Context, db *gorm.DB, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Method == "" {
		p.Method = "card"
	}
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// ListPayments returns the payments of an invoice, oldest first.
func ListPayments(ctx context.Context, db *gorm.DB, invoiceID string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
