package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type bundleRepository struct {
	db *gorm.DB
}

// NewBundleRepository creates a new content bundle repository
func NewBundleRepository(db *gorm.DB) deps.BundleRepository {
	return &bundleRepository{db: db}
}

// Save upserts a bundle with its ordered items
func (r *bundleRepository) Save(ctx context.Context, bundle *entities.ContentBundle) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items"}),
		}).
		Create(bundle).Error
}

// Get resolves a bundle or returns nil when absent
func (r *bundleRepository) Get(ctx context.Context, id string) (*entities.ContentBundle, error) {
	var bundle entities.ContentBundle
	err := r.db.WithContext(ctx).First(&bundle, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Delete removes a bundle; false when not found
func (r *bundleRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entities.ContentBundle{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
