package buissines

import (
	"context"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

// RecordJoinRequest registers an incoming membership request as pending.
// Re-requests refresh the existing pending row instead of duplicating it.
func (uc *UseCase) RecordJoinRequest(ctx context.Context, chatID string, userID int64, username string) error {
	if err := uc.users.Upsert(ctx, userID, username); err != nil {
		uc.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to upsert requesting user")
	}

	if err := uc.joins.UpsertPending(ctx, chatID, userID, username); err != nil {
		return err
	}

	uc.logger.Info().
		Str("chat_id", chatID).
		Int64("user_id", userID).
		Msg("Join request recorded")
	return nil
}

// DecideJoinRequest applies an accept or reject decision exactly once.
// The ledger row is the authority: a conditional update guards against
// two admins racing on the same request, the loser gets ErrAlreadyDecided.
// The transport-level admit/deny is best-effort and never rolls the
// decision back.
func (uc *UseCase) DecideJoinRequest(ctx context.Context, chatID string, userID int64, accept bool, decidedBy int64) (string, error) {
	status := entities.JoinStatusRejected
	if accept {
		status = entities.JoinStatusApproved
	}

	applied, err := uc.joins.Decide(ctx, chatID, userID, status, decidedBy)
	if err != nil {
		return "", err
	}
	if !applied {
		return "", domerrors.ErrAlreadyDecided
	}

	transport := uc.Transport()
	if accept {
		if err := transport.ApproveJoinRequest(ctx, chatID, userID); err != nil {
			uc.logger.Warn().Err(err).Int64("user_id", userID).Msg("Transport approve failed after ledger decision")
		}
	} else {
		if err := transport.DeclineJoinRequest(ctx, chatID, userID); err != nil {
			uc.logger.Warn().Err(err).Int64("user_id", userID).Msg("Transport decline failed after ledger decision")
		}
	}

	if err := uc.audit.JoinRequestDecided(ctx, chatID, userID, status, decidedBy); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to emit join decision audit event")
	}

	uc.logger.Info().
		Str("chat_id", chatID).
		Int64("user_id", userID).
		Str("status", status).
		Int64("decided_by", decidedBy).
		Msg("Join request decided")

	return status, nil
}
