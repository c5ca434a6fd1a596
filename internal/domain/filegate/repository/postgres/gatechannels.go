package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type gateChannelRepository struct {
	db *gorm.DB
}

// NewGateChannelRepository creates a new gate channel repository
func NewGateChannelRepository(db *gorm.DB) deps.GateChannelRepository {
	return &gateChannelRepository{db: db}
}

// Add upserts a gate channel tuple and re-enables it
func (r *gateChannelRepository) Add(ctx context.Context, ch entities.GateChannel) error {
	ch.Enabled = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "link"}, {Name: "chat_id"}, {Name: "label"}},
			DoUpdates: clause.Assignments(map[string]any{"enabled": true}),
		}).
		Create(&ch).Error
}

// Remove deletes an exact tuple; false when not found
func (r *gateChannelRepository) Remove(ctx context.Context, link, chatID, label string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("link = ? AND chat_id = ? AND label = ?", link, chatID, label).
		Delete(&entities.GateChannel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListEnabled returns enabled channels in insertion order
func (r *gateChannelRepository) ListEnabled(ctx context.Context) ([]entities.GateChannel, error) {
	var channels []entities.GateChannel
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("id ASC").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}
