// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for customers.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can run
// inside transactions. No business logic lives here.
//
// Error semantics:
//   - A missing row returns gorm.ErrRecordNotFound (ErrNotFound).
//   - Constraint violations and driver failures are returned raw; the HTTP
//     layer translates them.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCustomer inserts c, assigning an ID and timestamps when unset.
func CreateCustomer(ctx context.Context, db *gorm.DB, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	return db.WithContext(ctx).Create(c).Error
}

// GetCustomer fetches a customer of franchiseID by id.
func GetCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := db.WithContext(ctx).
		Where("id = ? AND franchise_id = ?", id, franchiseID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountCustomers returns the number of customers of franchiseID.
func CountCustomers(ctx context.Context, db *gorm.DB, franchiseID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("franchise_id = ?", franchiseID).
		Count(&total).Error
	return total, err
}

// ListCustomersPage returns a page of customers of franchiseID, newest first.
func ListCustomersPage(ctx context.Context, db *gorm.DB, franchiseID string, offset, limit int) ([]domain.Customer, error) {
	var out []domain.Customer
	err := db.WithContext(ctx).
		Where("franchise_id = ?", franchiseID).
		Order("created_at desc").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteCustomer removes a customer. It returns ErrNotFound when nothing was
// deleted; a customer that still has invoices fails with the driver's
// foreign key error.
func DeleteCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND franchise_id = ?", id, franchiseID).
		Delete(&domain.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
