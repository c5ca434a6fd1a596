package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

type joinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db *gorm.DB) deps.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

// UpsertPending records a pending request, refreshing username and
// timestamp when one is already pending
func (r *joinRequestRepository) UpsertPending(ctx context.Context, chatID string, userID int64, username string) error {
	req := entities.JoinRequest{
		ChatID:   chatID,
		UserID:   userID,
		Username: username,
		Status:   entities.JoinStatusPending,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"username":   username,
				"status":     entities.JoinStatusPending,
				"created_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&req).Error
}

// Status returns the current status or "" when no record exists
func (r *joinRequestRepository) Status(ctx context.Context, chatID string, userID int64) (string, error) {
	var req entities.JoinRequest
	err := r.db.WithContext(ctx).
		Select("status").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return req.Status, nil
}

// Decide applies a decision only while status is still pending.
// The status guard in the WHERE clause is the optimistic lock: two
// concurrent decisions on the same key race on a single conditional
// update and exactly one observes RowsAffected > 0.
func (r *joinRequestRepository) Decide(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&entities.JoinRequest{}).
		Where("chat_id = ? AND user_id = ? AND status = ?", chatID, userID, entities.JoinStatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
