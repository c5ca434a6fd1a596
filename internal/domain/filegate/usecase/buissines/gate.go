package buissines

import (
	"context"

	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// statuses reported by the membership oracle that count as not a member
const (
	memberStatusLeft   = "left"
	memberStatusKicked = "kicked"
)

// EvaluateGate checks the user against every enabled gate channel.
// Every channel is consulted even after the first miss so the result
// lists all outstanding requirements at once. Oracle errors count as
// not a member: the gate fails closed.
func (uc *UseCase) EvaluateGate(ctx context.Context, userID int64) (dto.GateResult, error) {
	channels, err := uc.gates.ListEnabled(ctx)
	if err != nil {
		return dto.GateResult{}, err
	}

	if len(channels) == 0 {
		return dto.GateResult{Passed: true}, nil
	}

	oracle := uc.Oracle()

	var missing []entities.GateChannel
	for _, ch := range channels {
		status, err := oracle.GetStatus(ctx, ch.ChatID, userID)
		if err != nil {
			uc.logger.Warn().
				Err(err).
				Str("chat_id", ch.ChatID).
				Int64("user_id", userID).
				Msg("Membership check failed, treating as not a member")
			missing = append(missing, ch)
			continue
		}
		if status == memberStatusLeft || status == memberStatusKicked {
			missing = append(missing, ch)
		}
	}

	if len(missing) == 0 {
		return dto.GateResult{Passed: true}, nil
	}

	// One awaiting request is enough to show the pending screen instead
	// of the join prompt
	pending := false
	for _, ch := range missing {
		status, err := uc.joins.Status(ctx, ch.ChatID, userID)
		if err != nil {
			uc.logger.Warn().
				Err(err).
				Str("chat_id", ch.ChatID).
				Int64("user_id", userID).
				Msg("Join request lookup failed")
			continue
		}
		if status == entities.JoinStatusPending {
			pending = true
			break
		}
	}

	return dto.GateResult{Missing: missing, Pending: pending}, nil
}
