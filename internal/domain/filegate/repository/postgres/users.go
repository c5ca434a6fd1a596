// Package postgres contains gorm repositories for the filegate domain
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// Upsert creates the user on first contact or refreshes username/active
func (r *userRepository) Upsert(ctx context.Context, id int64, username string) error {
	user := entities.User{ID: id, Username: username, Active: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{"username": username, "active": true}),
		}).
		Create(&user).Error
}

// Get returns the user or nil when unknown
func (r *userRepository) Get(ctx context.Context, id int64) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetPremium flips the premium flag, creating the record if missing
func (r *userRepository) SetPremium(ctx context.Context, id int64, premium bool) error {
	if err := r.ensureRecord(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("premium", premium).Error
}

// SetBanned flips the banned flag, creating the record if missing
func (r *userRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	if err := r.ensureRecord(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("banned", banned).Error
}

// ListRecipients returns non-banned user IDs, optionally premium-only
func (r *userRepository) ListRecipients(ctx context.Context, premiumOnly bool) ([]int64, error) {
	var ids []int64
	query := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("banned = ?", false)
	if premiumOnly {
		query = query.Where("premium = ?", true)
	}
	if err := query.Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListRecent returns the most recently seen users
func (r *userRepository) ListRecent(ctx context.Context, limit int) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Counts returns total/premium/banned user counts
func (r *userRepository) Counts(ctx context.Context) (total, premium, banned int64, err error) {
	db := r.db.WithContext(ctx).Model(&entities.User{})
	if err = db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = db.Session(&gorm.Session{}).Where("premium = ?", true).Count(&premium).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = db.Session(&gorm.Session{}).Where("banned = ?", true).Count(&banned).Error; err != nil {
		return 0, 0, 0, err
	}
	return total, premium, banned, nil
}

func (r *userRepository) ensureRecord(ctx context.Context, id int64) error {
	user := entities.User{ID: id, Active: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
}
