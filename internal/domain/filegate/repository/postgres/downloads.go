package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type downloadRepository struct {
	db *gorm.DB
}

// NewDownloadRepository creates a new download log repository
func NewDownloadRepository(db *gorm.DB) deps.DownloadRepository {
	return &downloadRepository{db: db}
}

// Append logs one delivery
func (r *downloadRepository) Append(ctx context.Context, bundleID string, userID int64) error {
	record := entities.DownloadRecord{BundleID: bundleID, UserID: userID}
	return r.db.WithContext(ctx).Create(&record).Error
}

// CountSince counts a user's downloads at or after the given instant
func (r *downloadRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.DownloadRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// CountByBundle counts deliveries of one bundle
func (r *downloadRepository) CountByBundle(ctx context.Context, bundleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.DownloadRecord{}).
		Where("bundle_id = ?", bundleID).
		Count(&count).Error
	return count, err
}

// Total counts all deliveries
func (r *downloadRepository) Total(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.DownloadRecord{}).
		Count(&count).Error
	return count, err
}
