package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin grant repository
func NewAdminRepository(db *gorm.DB) deps.AdminRepository {
	return &adminRepository{db: db}
}

// Add upserts a revocable admin grant
func (r *adminRepository) Add(ctx context.Context, userID, addedBy int64) error {
	grant := entities.AdminGrant{UserID: userID, AddedBy: addedBy}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"added_by": addedBy}),
		}).
		Create(&grant).Error
}

// Remove revokes a grant; false when no grant existed
func (r *adminRepository) Remove(ctx context.Context, userID int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.AdminGrant{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Exists reports whether a grant exists
func (r *adminRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.AdminGrant{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all granted admin IDs
func (r *adminRepository) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entities.AdminGrant{}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
