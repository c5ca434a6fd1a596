package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// countingRepo counts repository reads
type countingRepo struct {
	mu     sync.Mutex
	values map[string]string
	reads  int
	err    error
}

func (r *countingRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.err != nil {
		return "", r.err
	}
	return r.values[key], nil
}

func (r *countingRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *countingRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func TestSettingsCache_ReadThrough(t *testing.T) {
	repo := &countingRepo{values: map[string]string{"daily_quota": "5"}}
	cache := NewSettingsCache(repo, zerolog.Nop())

	for i := 0; i < 3; i++ {
		value, err := cache.Get(context.Background(), "daily_quota")
		require.NoError(t, err)
		require.Equal(t, "5", value)
	}

	require.Equal(t, 1, repo.reads, "repository consulted only on miss")
}

func TestSettingsCache_MissingKeysAreCachedEmpty(t *testing.T) {
	repo := &countingRepo{values: map[string]string{}}
	cache := NewSettingsCache(repo, zerolog.Nop())

	for i := 0; i < 2; i++ {
		value, err := cache.Get(context.Background(), "unset")
		require.NoError(t, err)
		require.Empty(t, value)
	}

	require.Equal(t, 1, repo.reads)
}

func TestSettingsCache_InvalidateForcesReload(t *testing.T) {
	repo := &countingRepo{values: map[string]string{"daily_quota": "5"}}
	cache := NewSettingsCache(repo, zerolog.Nop())

	value, err := cache.Get(context.Background(), "daily_quota")
	require.NoError(t, err)
	require.Equal(t, "5", value)

	require.NoError(t, repo.Set(context.Background(), "daily_quota", "10"))

	// Stale until invalidated
	value, err = cache.Get(context.Background(), "daily_quota")
	require.NoError(t, err)
	require.Equal(t, "5", value)

	cache.Invalidate("daily_quota")

	value, err = cache.Get(context.Background(), "daily_quota")
	require.NoError(t, err)
	require.Equal(t, "10", value)
}

func TestSettingsCache_RepositoryErrorNotCached(t *testing.T) {
	repo := &countingRepo{values: map[string]string{}, err: errors.New("connection refused")}
	cache := NewSettingsCache(repo, zerolog.Nop())

	_, err := cache.Get(context.Background(), "daily_quota")
	require.Error(t, err)

	repo.mu.Lock()
	repo.err = nil
	repo.values["daily_quota"] = "7"
	repo.mu.Unlock()

	value, err := cache.Get(context.Background(), "daily_quota")
	require.NoError(t, err)
	require.Equal(t, "7", value)
}
