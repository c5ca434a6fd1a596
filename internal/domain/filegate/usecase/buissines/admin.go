package buissines

import (
	"context"
	"strconv"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
	pkgerrors "github.com/luffex/filegate/pkg/errors"
)

// RegisterUser records first contact or refreshes an existing user,
// reactivating users who previously blocked the bot
func (uc *UseCase) RegisterUser(ctx context.Context, userID int64, username string) error {
	return uc.users.Upsert(ctx, userID, username)
}

// IsOwner reports whether the user is the configured owner
func (uc *UseCase) IsOwner(userID int64) bool {
	return userID == uc.cfg.OwnerID
}

// IsAdmin reports whether the user is the owner or holds a grant
func (uc *UseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if uc.IsOwner(userID) {
		return true, nil
	}
	return uc.admins.Exists(ctx, userID)
}

// IsPrivileged reports whether the user is exempt from quota limits
func (uc *UseCase) IsPrivileged(ctx context.Context, userID int64) (bool, error) {
	admin, err := uc.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	user, err := uc.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Premium, nil
}

// CanUpload reports whether the user may open upload sessions
func (uc *UseCase) CanUpload(ctx context.Context, userID int64) (bool, error) {
	return uc.IsPrivileged(ctx, userID)
}

// IsBanned reports whether the user is banned. The owner and admins
// cannot be locked out even with a stale banned flag.
func (uc *UseCase) IsBanned(ctx context.Context, userID int64) (bool, error) {
	admin, err := uc.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return false, nil
	}

	user, err := uc.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Banned, nil
}

// PromoteAdmin grants admin rights. Owner only; the owner's own
// implicit grant is never stored.
func (uc *UseCase) PromoteAdmin(ctx context.Context, actorID, targetID int64) error {
	if !uc.IsOwner(actorID) {
		return domerrors.ErrNotOwner
	}
	if uc.IsOwner(targetID) {
		return domerrors.ErrOwnerImmutable
	}
	if err := uc.admins.Add(ctx, targetID, actorID); err != nil {
		return err
	}
	uc.logger.Info().Int64("target", targetID).Int64("by", actorID).Msg("Admin promoted")
	return nil
}

// DemoteAdmin revokes admin rights. Owner only.
func (uc *UseCase) DemoteAdmin(ctx context.Context, actorID, targetID int64) error {
	if !uc.IsOwner(actorID) {
		return domerrors.ErrNotOwner
	}
	if uc.IsOwner(targetID) {
		return domerrors.ErrOwnerImmutable
	}
	found, err := uc.admins.Remove(ctx, targetID)
	if err != nil {
		return err
	}
	if !found {
		return domerrors.ErrNotAdmin
	}
	uc.logger.Info().Int64("target", targetID).Int64("by", actorID).Msg("Admin demoted")
	return nil
}

// ListAdmins returns all granted admin IDs
func (uc *UseCase) ListAdmins(ctx context.Context) ([]int64, error) {
	return uc.admins.List(ctx)
}

// SetBanned flips a user's banned flag. The owner cannot be banned.
func (uc *UseCase) SetBanned(ctx context.Context, targetID int64, banned bool) error {
	if uc.IsOwner(targetID) {
		return domerrors.ErrOwnerImmutable
	}
	return uc.users.SetBanned(ctx, targetID, banned)
}

// SetPremium flips a user's premium flag
func (uc *UseCase) SetPremium(ctx context.Context, targetID int64, premium bool) error {
	return uc.users.SetPremium(ctx, targetID, premium)
}

// Profile returns the per-user view for /profile
func (uc *UseCase) Profile(ctx context.Context, userID int64) (dto.Profile, error) {
	profile := dto.Profile{UserID: userID}

	admin, err := uc.IsAdmin(ctx, userID)
	if err != nil {
		return dto.Profile{}, err
	}
	profile.Admin = admin

	user, err := uc.users.Get(ctx, userID)
	if err != nil {
		return dto.Profile{}, err
	}
	if user != nil {
		profile.Username = user.Username
		profile.Premium = user.Premium
		profile.Banned = user.Banned
	}

	return profile, nil
}

// Stats returns the aggregate counters for /stats
func (uc *UseCase) Stats(ctx context.Context) (dto.Stats, error) {
	total, premium, banned, err := uc.users.Counts(ctx)
	if err != nil {
		return dto.Stats{}, err
	}

	downloads, err := uc.downloads.Total(ctx)
	if err != nil {
		return dto.Stats{}, err
	}

	return dto.Stats{
		TotalUsers:   total,
		PremiumUsers: premium,
		BannedUsers:  banned,
		Downloads:    downloads,
	}, nil
}

// UsageToday returns the user's download count since the day boundary
func (uc *UseCase) UsageToday(ctx context.Context, userID int64) (int64, error) {
	return uc.downloads.CountSince(ctx, userID, uc.dayStart())
}

// RecentUsers returns the most recently seen users for /users
func (uc *UseCase) RecentUsers(ctx context.Context, limit int) ([]entities.User, error) {
	return uc.users.ListRecent(ctx, limit)
}

// AddGateChannel registers a membership requirement
func (uc *UseCase) AddGateChannel(ctx context.Context, link, chatID, label string) error {
	if link == "" || chatID == "" || label == "" {
		return pkgerrors.NewValidationError("link, chat id and label are required")
	}
	return uc.gates.Add(ctx, entities.GateChannel{
		Link:    link,
		ChatID:  chatID,
		Label:   label,
		Enabled: true,
	})
}

// RemoveGateChannel removes an exact requirement tuple
func (uc *UseCase) RemoveGateChannel(ctx context.Context, link, chatID, label string) (bool, error) {
	return uc.gates.Remove(ctx, link, chatID, label)
}

// ListGateChannels returns enabled requirements in insertion order
func (uc *UseCase) ListGateChannels(ctx context.Context) ([]entities.GateChannel, error) {
	return uc.gates.ListEnabled(ctx)
}

// SeedDefaultGate inserts the configured default gate channel once at
// startup when one is configured
func (uc *UseCase) SeedDefaultGate(ctx context.Context) error {
	if uc.cfg.DefaultGateLink == "" || uc.cfg.DefaultGateChat == "" {
		return nil
	}
	return uc.gates.Add(ctx, entities.GateChannel{
		Link:    uc.cfg.DefaultGateLink,
		ChatID:  uc.cfg.DefaultGateChat,
		Label:   uc.cfg.DefaultGateLabel,
		Enabled: true,
	})
}

// SetStartPhoto stores the /start screen photo file ID; empty clears it
func (uc *UseCase) SetStartPhoto(ctx context.Context, fileID string) error {
	return uc.writeSetting(ctx, consts.SettingStartPhoto, fileID)
}

// StartPhoto returns the configured /start screen photo file ID
func (uc *UseCase) StartPhoto(ctx context.Context) (string, error) {
	return uc.view.Get(ctx, consts.SettingStartPhoto)
}

// SetDailyQuota stores the daily download quota; zero disables it
func (uc *UseCase) SetDailyQuota(ctx context.Context, quota int64) error {
	if quota < 0 {
		return pkgerrors.NewValidationError("quota must be non-negative")
	}
	return uc.writeSetting(ctx, consts.SettingDailyQuota, strconv.FormatInt(quota, 10))
}

// SetButtonTarget stores the delivery call-to-action URL; empty clears it
func (uc *UseCase) SetButtonTarget(ctx context.Context, url string) error {
	return uc.writeSetting(ctx, consts.SettingButtonTarget, url)
}

// writeSetting persists a key and synchronously drops the cached value
// so the next read observes the write
func (uc *UseCase) writeSetting(ctx context.Context, key, value string) error {
	var err error
	if value == "" {
		err = uc.settings.Delete(ctx, key)
	} else {
		err = uc.settings.Set(ctx, key, value)
	}
	if err != nil {
		return err
	}
	uc.view.Invalidate(key)
	return nil
}
