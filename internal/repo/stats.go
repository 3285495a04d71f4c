// This file provides small aggregate queries used for conditional responses
// (ETag generation) in the HTTP layer.

package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/domain"
)

// CustomersStats returns the number of customers of franchiseID and the
// latest UpdatedAt among them (nil when there are none).
func CustomersStats(ctx context.Context, db *gorm.DB, franchiseID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Customer{}).Where("franchise_id = ?", franchiseID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.Customer{}).
		Where("franchise_id = ?", franchiseID).
		Select("updated_at").Order("updated_at DESC").Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
