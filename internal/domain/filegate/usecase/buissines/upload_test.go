package buissines

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

func TestBeginUpload_RequiresUploaderRights(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.BeginUpload(context.Background(), 42)
	require.ErrorIs(t, err, domerrors.ErrNotUploader)
}

func TestUpload_FullLifecycle(t *testing.T) {
	env := newTestEnv()
	env.users.GetFn = func(_ context.Context, id int64) (*entities.User, error) {
		return &entities.User{ID: id, Premium: true}, nil
	}

	var saved *entities.ContentBundle
	env.bundles.SaveFn = func(_ context.Context, bundle *entities.ContentBundle) error {
		saved = bundle
		return nil
	}

	bundleID, err := env.uc.BeginUpload(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, bundleID, 12)

	count, err := env.uc.AppendUpload(42, entities.ContentItem{Kind: entities.KindPhoto, FileID: "p1"})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = env.uc.AppendUpload(42, entities.ContentItem{Kind: entities.KindDocument, FileID: "d1"})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	savedID, link, items, err := env.uc.FinalizeUpload(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, bundleID, savedID)
	require.Equal(t, 2, items)
	require.Equal(t, "https://t.me/filegate_test_bot?start="+bundleID, link)

	require.NotNil(t, saved)
	require.Equal(t, bundleID, saved.ID)
	require.Len(t, saved.Items, 2)
	require.Equal(t, entities.KindPhoto, saved.Items[0].Kind, "item order must be preserved")
}

func TestFinalizeUpload_WithoutSession(t *testing.T) {
	env := newTestEnv()

	_, _, _, err := env.uc.FinalizeUpload(context.Background(), 42)
	require.ErrorIs(t, err, domerrors.ErrNoSession)
}

func TestFinalizeUpload_EmptySessionPersistsNothing(t *testing.T) {
	env := newTestEnv()
	env.users.GetFn = func(_ context.Context, id int64) (*entities.User, error) {
		return &entities.User{ID: id, Premium: true}, nil
	}

	saved := false
	env.bundles.SaveFn = func(context.Context, *entities.ContentBundle) error {
		saved = true
		return nil
	}

	_, err := env.uc.BeginUpload(context.Background(), 42)
	require.NoError(t, err)

	_, _, _, err = env.uc.FinalizeUpload(context.Background(), 42)
	require.ErrorIs(t, err, domerrors.ErrEmptySession)
	require.False(t, saved)
}

func TestAppendUpload_WithoutSession(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.AppendUpload(42, entities.ContentItem{Kind: entities.KindPhoto, FileID: "p1"})
	require.ErrorIs(t, err, domerrors.ErrNoSession)
}

func TestRegenerateLink_UnknownBundle(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.RegenerateLink(context.Background(), "missing00000")
	require.ErrorIs(t, err, domerrors.ErrBundleNotFound)
}

func TestDeleteBundle(t *testing.T) {
	env := newTestEnv()
	env.bundles.DeleteFn = func(_ context.Context, id string) (bool, error) {
		return id == "known0000000", nil
	}

	require.NoError(t, env.uc.DeleteBundle(context.Background(), "known0000000"))
	require.ErrorIs(t, env.uc.DeleteBundle(context.Background(), "other0000000"), domerrors.ErrBundleNotFound)
}

func TestNewBundleID_Alphanumeric(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := newBundleID()
		require.NoError(t, err)
		require.Len(t, id, 12)
		for _, r := range id {
			require.True(t,
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
				"unexpected rune %q in %s", r, id)
		}
		require.False(t, seen[id], "ids must not repeat")
		seen[id] = true
	}
}
