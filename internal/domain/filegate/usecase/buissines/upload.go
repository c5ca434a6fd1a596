package buissines

import (
	"context"
	"fmt"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

// BeginUpload opens a fresh upload session for an uploader and returns
// the pre-assigned bundle ID. A prior unfinished session is silently
// discarded.
func (uc *UseCase) BeginUpload(ctx context.Context, userID int64) (string, error) {
	allowed, err := uc.CanUpload(ctx, userID)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", domerrors.ErrNotUploader
	}

	bundleID, err := newBundleID()
	if err != nil {
		return "", err
	}

	uc.sessions.BeginUpload(userID, bundleID)
	uc.logger.Info().Int64("user_id", userID).Str("bundle_id", bundleID).Msg("Upload session opened")
	return bundleID, nil
}

// AppendUpload buffers one item into the open session and returns the
// running count
func (uc *UseCase) AppendUpload(userID int64, item entities.ContentItem) (int, error) {
	count, ok := uc.sessions.AppendUpload(userID, item)
	if !ok {
		return 0, domerrors.ErrNoSession
	}
	return count, nil
}

// FinalizeUpload persists the buffered session as a bundle and returns
// its share link. An empty session closes without persisting anything.
func (uc *UseCase) FinalizeUpload(ctx context.Context, userID int64) (string, string, int, error) {
	bundleID, items, ok := uc.sessions.TakeUpload(userID)
	if !ok {
		return "", "", 0, domerrors.ErrNoSession
	}
	if len(items) == 0 {
		return "", "", 0, domerrors.ErrEmptySession
	}

	bundle := &entities.ContentBundle{
		ID:    bundleID,
		Items: items,
	}
	if err := uc.bundles.Save(ctx, bundle); err != nil {
		return "", "", 0, err
	}

	link, err := uc.ShareLink(ctx, bundleID)
	if err != nil {
		return "", "", 0, err
	}

	if err := uc.audit.UploadCreated(ctx, bundleID, userID, len(items)); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to emit upload audit event")
	}

	// Operator channel notice is best-effort
	if uc.cfg.AuditChannelID != 0 {
		notice := fmt.Sprintf("📦 New bundle %s\n👤 Uploader: %d\n🗂 Items: %d\n🔗 %s",
			bundleID, userID, len(items), link)
		if _, err := uc.Transport().SendText(ctx, uc.cfg.AuditChannelID, notice); err != nil {
			uc.logger.Warn().Err(err).Msg("Failed to notify audit channel")
		}
	}

	uc.logger.Info().
		Int64("user_id", userID).
		Str("bundle_id", bundleID).
		Int("items", len(items)).
		Msg("Bundle persisted")

	return bundleID, link, len(items), nil
}

// ShareLink builds the deep link that resolves to a bundle
func (uc *UseCase) ShareLink(ctx context.Context, bundleID string) (string, error) {
	username, err := uc.Transport().BotUsername(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", username, bundleID), nil
}

// RegenerateLink returns a share link for an existing bundle
func (uc *UseCase) RegenerateLink(ctx context.Context, bundleID string) (string, error) {
	bundle, err := uc.bundles.Get(ctx, bundleID)
	if err != nil {
		return "", err
	}
	if bundle == nil {
		return "", domerrors.ErrBundleNotFound
	}
	return uc.ShareLink(ctx, bundleID)
}

// DeleteBundle removes a stored bundle
func (uc *UseCase) DeleteBundle(ctx context.Context, bundleID string) error {
	found, err := uc.bundles.Delete(ctx, bundleID)
	if err != nil {
		return err
	}
	if !found {
		return domerrors.ErrBundleNotFound
	}
	uc.logger.Info().Str("bundle_id", bundleID).Msg("Bundle deleted")
	return nil
}
