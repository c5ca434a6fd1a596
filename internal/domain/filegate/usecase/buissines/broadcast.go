package buissines

import (
	"context"
	"fmt"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
)

// BroadcastRecipients snapshots the current recipient list for a target.
// Users joining after the snapshot are not included in the running
// fan-out.
func (uc *UseCase) BroadcastRecipients(ctx context.Context, target string) ([]int64, error) {
	return uc.users.ListRecipients(ctx, target == consts.TargetPremium)
}

// StartBroadcast launches the fan-out in a supervised background task
// and returns immediately. Progress is reported by editing the given
// message every 10 dispatches and on the final recipient, followed by
// a closing summary edit.
func (uc *UseCase) StartBroadcast(payload dto.BroadcastPayload, recipients []int64, progress dto.MessageRef) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				uc.logger.Error().Interface("panic", r).Msg("Panic in broadcast task")
			}
		}()

		// Detached from the triggering update so the fan-out survives it
		ctx := context.Background()
		report := uc.runBroadcast(ctx, payload, recipients, progress)

		if err := uc.audit.BroadcastFinished(ctx, report); err != nil {
			uc.logger.Warn().Err(err).Msg("Failed to emit broadcast audit event")
		}
	}()
}

// runBroadcast dispatches the payload to every recipient with a fixed
// pacing delay between sends. Per-recipient failures (blocked bots,
// deleted accounts) are counted and skipped.
func (uc *UseCase) runBroadcast(ctx context.Context, payload dto.BroadcastPayload, recipients []int64, progress dto.MessageRef) dto.BroadcastReport {
	transport := uc.Transport()

	report := dto.BroadcastReport{
		Target: payload.Target,
		Total:  len(recipients),
	}

	for i, chatID := range recipients {
		if err := transport.SendPayload(ctx, chatID, payload); err != nil {
			report.Failed++
			uc.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Broadcast dispatch failed")
		} else {
			report.Succeeded++
		}

		done := i + 1
		if done%10 == 0 || done == report.Total {
			text := fmt.Sprintf("📣 ʙʀᴏᴀᴅᴄᴀꜱᴛɪɴɢ... %d/%d\n✅ %d | ❌ %d",
				done, report.Total, report.Succeeded, report.Failed)
			if err := transport.EditText(ctx, progress, text); err != nil {
				uc.logger.Debug().Err(err).Msg("Failed to edit broadcast progress")
			}
		}

		uc.clock.Sleep(ctx, uc.cfg.BroadcastPace)
	}

	summary := fmt.Sprintf("✅ ʙʀᴏᴀᴅᴄᴀꜱᴛ ꜰɪɴɪꜱʜᴇᴅ\n\n👥 ᴛᴏᴛᴀʟ: %d\n✅ ꜱᴇɴᴛ: %d\n❌ ꜰᴀɪʟᴇᴅ: %d",
		report.Total, report.Succeeded, report.Failed)
	if err := transport.EditText(ctx, progress, summary); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to publish broadcast summary")
	}

	uc.logger.Info().
		Str("target", report.Target).
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("Broadcast finished")

	return report
}
