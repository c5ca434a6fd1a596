package buissines

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

const ownerID = int64(1000)

func TestIsAdmin_OwnerIsImplicit(t *testing.T) {
	env := newTestEnv()

	admin, err := env.uc.IsAdmin(context.Background(), ownerID)
	require.NoError(t, err)
	require.True(t, admin)

	admin, err = env.uc.IsAdmin(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, admin)
}

func TestPromoteAdmin_OwnerOnly(t *testing.T) {
	env := newTestEnv()

	err := env.uc.PromoteAdmin(context.Background(), 42, 43)
	require.ErrorIs(t, err, domerrors.ErrNotOwner)

	added := false
	env.admins.AddFn = func(_ context.Context, userID, addedBy int64) error {
		added = true
		require.Equal(t, int64(43), userID)
		require.Equal(t, ownerID, addedBy)
		return nil
	}

	require.NoError(t, env.uc.PromoteAdmin(context.Background(), ownerID, 43))
	require.True(t, added)
}

func TestPromoteAdmin_OwnerGrantNeverStored(t *testing.T) {
	env := newTestEnv()

	err := env.uc.PromoteAdmin(context.Background(), ownerID, ownerID)
	require.ErrorIs(t, err, domerrors.ErrOwnerImmutable)
}

func TestDemoteAdmin_UnknownGrant(t *testing.T) {
	env := newTestEnv()

	err := env.uc.DemoteAdmin(context.Background(), ownerID, 43)
	require.ErrorIs(t, err, domerrors.ErrNotAdmin)
}

func TestSetBanned_OwnerImmutable(t *testing.T) {
	env := newTestEnv()

	err := env.uc.SetBanned(context.Background(), ownerID, true)
	require.ErrorIs(t, err, domerrors.ErrOwnerImmutable)
}

func TestIsBanned_AdminsNeverLockedOut(t *testing.T) {
	env := newTestEnv()
	env.users.GetFn = func(_ context.Context, id int64) (*entities.User, error) {
		return &entities.User{ID: id, Banned: true}, nil
	}
	env.admins.ExistsFn = func(_ context.Context, userID int64) (bool, error) {
		return userID == 43, nil
	}

	banned, err := env.uc.IsBanned(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, banned)

	banned, err = env.uc.IsBanned(context.Background(), 43)
	require.NoError(t, err)
	require.False(t, banned, "stale banned flag must not lock out an admin")

	banned, err = env.uc.IsBanned(context.Background(), ownerID)
	require.NoError(t, err)
	require.False(t, banned)
}

func TestWriteSetting_InvalidatesCache(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.uc.SetDailyQuota(context.Background(), 5))
	require.Contains(t, env.view.invalidated, consts.SettingDailyQuota)

	value, err := env.settings.Get(context.Background(), consts.SettingDailyQuota)
	require.NoError(t, err)
	require.Equal(t, "5", value)
}

func TestWriteSetting_EmptyValueDeletesKey(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.uc.SetStartPhoto(context.Background(), "file123"))
	require.NoError(t, env.uc.SetStartPhoto(context.Background(), ""))

	value, err := env.settings.Get(context.Background(), consts.SettingStartPhoto)
	require.NoError(t, err)
	require.Empty(t, value)
	require.Len(t, env.view.invalidated, 2)
}

func TestSetDailyQuota_RejectsNegative(t *testing.T) {
	env := newTestEnv()

	require.Error(t, env.uc.SetDailyQuota(context.Background(), -1))
}

func TestSeedDefaultGate(t *testing.T) {
	env := newTestEnv()

	added := false
	env.gates.AddFn = func(_ context.Context, ch entities.GateChannel) error {
		added = true
		return nil
	}

	// Nothing configured, nothing seeded
	require.NoError(t, env.uc.SeedDefaultGate(context.Background()))
	require.False(t, added)

	env.uc.cfg.DefaultGateLink = "https://t.me/main"
	env.uc.cfg.DefaultGateChat = "@main"
	env.uc.cfg.DefaultGateLabel = "Join main"

	require.NoError(t, env.uc.SeedDefaultGate(context.Background()))
	require.True(t, added)
}

func TestStats_AggregatesCounters(t *testing.T) {
	env := newTestEnv()
	env.users.CountsFn = func(context.Context) (int64, int64, int64, error) {
		return 100, 10, 3, nil
	}
	env.downloads.TotalFn = func(context.Context) (int64, error) {
		return 555, nil
	}

	stats, err := env.uc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(100), stats.TotalUsers)
	require.Equal(t, int64(10), stats.PremiumUsers)
	require.Equal(t, int64(3), stats.BannedUsers)
	require.Equal(t, int64(555), stats.Downloads)
}
