package buissines

import (
	"context"
	"strconv"
	"time"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

const (
	deliveryIndicatorText = "⏳ ᴘʀᴇᴘᴀʀɪɴɢ ʏᴏᴜʀ ꜰɪʟᴇꜱ..."
	deliveryNoticeText    = "⚠️ ꜰɪʟᴇꜱ ᴡɪʟʟ ʙᴇ ᴅᴇʟᴇᴛᴇᴅ ɪɴ 10 ᴍɪɴᴜᴛᴇꜱ. ꜱᴀᴠᴇ ᴛʜᴇᴍ ꜱᴏᴍᴇᴡʜᴇʀᴇ ᴇʟꜱᴇ!"
	deliveryButtonLabel   = "📣 ᴍᴏʀᴇ ꜰɪʟᴇꜱ"
)

// Deliver resolves a bundle and dispatches its items to the chat.
// Callers must have passed the gate already. Every delivered message,
// including the trailing notice, self-destructs after the configured
// delay. Partial failures skip the failing item and keep going.
func (uc *UseCase) Deliver(ctx context.Context, chatID, userID int64, bundleID string) (dto.DeliveryReport, error) {
	if err := uc.checkQuota(ctx, userID); err != nil {
		return dto.DeliveryReport{}, err
	}

	bundle, err := uc.bundles.Get(ctx, bundleID)
	if err != nil {
		return dto.DeliveryReport{}, err
	}
	if bundle == nil {
		return dto.DeliveryReport{}, domerrors.ErrBundleNotFound
	}

	transport := uc.Transport()

	// Transient indicator while items go out; removed, never scheduled
	indicator, indicatorErr := transport.SendText(ctx, chatID, deliveryIndicatorText)

	var refs []dto.MessageRef
	dispatched := 0
	for _, item := range bundle.Items {
		ref, err := transport.SendItem(ctx, chatID, item)
		if err != nil {
			uc.logger.Warn().
				Err(err).
				Str("bundle_id", bundleID).
				Str("kind", string(item.Kind)).
				Msg("Failed to dispatch item, skipping")
			continue
		}
		refs = append(refs, ref)
		dispatched++
	}

	if indicatorErr == nil {
		if err := transport.Delete(ctx, indicator); err != nil {
			uc.logger.Debug().Err(err).Msg("Failed to remove delivery indicator")
		}
	}

	// Accounting is best-effort and independent of per-item outcomes:
	// even an all-items-failed delivery consumes quota
	if err := uc.downloads.Append(ctx, bundleID, userID); err != nil {
		uc.logger.Error().Err(err).Str("bundle_id", bundleID).Msg("Failed to log download")
	}
	if err := uc.audit.DownloadLogged(ctx, bundleID, userID); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to emit download audit event")
	}

	notice, err := uc.sendDeliveryNotice(ctx, chatID)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to send delivery notice")
	} else {
		refs = append(refs, notice)
	}

	for _, ref := range refs {
		uc.deleter.Schedule(ref, uc.cfg.DeleteDelay)
	}

	uc.logger.Info().
		Str("bundle_id", bundleID).
		Int64("user_id", userID).
		Int("dispatched", dispatched).
		Int("scheduled", len(refs)).
		Msg("Bundle delivered")

	return dto.DeliveryReport{
		BundleID:   bundleID,
		Dispatched: dispatched,
		Scheduled:  len(refs),
	}, nil
}

// sendDeliveryNotice sends the trailing self-destruct warning, with the
// configured call-to-action button when one is set
func (uc *UseCase) sendDeliveryNotice(ctx context.Context, chatID int64) (dto.MessageRef, error) {
	transport := uc.Transport()

	target, err := uc.view.Get(ctx, consts.SettingButtonTarget)
	if err != nil || target == "" {
		return transport.SendText(ctx, chatID, deliveryNoticeText)
	}
	return transport.SendLinkButton(ctx, chatID, deliveryNoticeText, deliveryButtonLabel, target)
}

// checkQuota enforces the daily download quota. Admins, the owner and
// premium users are exempt; a zero or unset quota disables enforcement.
func (uc *UseCase) checkQuota(ctx context.Context, userID int64) error {
	raw, err := uc.view.Get(ctx, consts.SettingDailyQuota)
	if err != nil {
		// A broken settings read must not lock everyone out
		uc.logger.Error().Err(err).Msg("Quota setting unavailable, skipping enforcement")
		return nil
	}

	quota, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || quota <= 0 {
		return nil
	}

	exempt, err := uc.IsPrivileged(ctx, userID)
	if err == nil && exempt {
		return nil
	}

	dayStart := uc.dayStart()
	used, err := uc.downloads.CountSince(ctx, userID, dayStart)
	if err != nil {
		uc.logger.Error().Err(err).Int64("user_id", userID).Msg("Quota count failed, skipping enforcement")
		return nil
	}

	if used >= quota {
		return domerrors.ErrQuotaExceeded
	}
	return nil
}

// dayStart returns midnight of the current day in the quota timezone
func (uc *UseCase) dayStart() time.Time {
	now := uc.clock.Now().In(uc.quotaLoc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.quotaLoc)
}
