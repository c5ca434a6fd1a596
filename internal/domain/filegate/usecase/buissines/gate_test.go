package buissines

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

func gateChannels(ids ...string) []entities.GateChannel {
	out := make([]entities.GateChannel, 0, len(ids))
	for i, id := range ids {
		out = append(out, entities.GateChannel{
			ID:      uint(i + 1),
			Link:    "https://t.me/" + id,
			ChatID:  id,
			Label:   "Join " + id,
			Enabled: true,
		})
	}
	return out
}

func TestEvaluateGate_NoChannelsPasses(t *testing.T) {
	env := newTestEnv()

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, result.Passed)
	require.Empty(t, result.Missing)
}

func TestEvaluateGate_AllMembersPass(t *testing.T) {
	env := newTestEnv()
	env.gates.ListEnabledFn = func(context.Context) ([]entities.GateChannel, error) {
		return gateChannels("@a", "@b"), nil
	}
	env.oracle.statuses["@a"] = "member"
	env.oracle.statuses["@b"] = "administrator"

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, result.Passed)
}

func TestEvaluateGate_ChecksEveryChannelAfterFirstMiss(t *testing.T) {
	env := newTestEnv()
	env.gates.ListEnabledFn = func(context.Context) ([]entities.GateChannel, error) {
		return gateChannels("@a", "@b", "@c"), nil
	}
	env.oracle.statuses["@a"] = "left"
	env.oracle.statuses["@b"] = "member"
	env.oracle.statuses["@c"] = "kicked"

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, result.Passed)
	require.Len(t, result.Missing, 2)
	require.Equal(t, "@a", result.Missing[0].ChatID)
	require.Equal(t, "@c", result.Missing[1].ChatID)
	require.Len(t, env.oracle.calls, 3, "every channel must be consulted")
}

func TestEvaluateGate_OracleErrorFailsClosed(t *testing.T) {
	env := newTestEnv()
	env.gates.ListEnabledFn = func(context.Context) ([]entities.GateChannel, error) {
		return gateChannels("@a"), nil
	}
	env.oracle.errs["@a"] = errors.New("chat not found")

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, result.Passed)
	require.Len(t, result.Missing, 1)
}

func TestEvaluateGate_PendingWhenAnyMissingHasRequest(t *testing.T) {
	env := newTestEnv()
	env.gates.ListEnabledFn = func(context.Context) ([]entities.GateChannel, error) {
		return gateChannels("@a", "@b"), nil
	}
	env.oracle.statuses["@a"] = "left"
	env.oracle.statuses["@b"] = "left"
	env.joins.StatusFn = func(_ context.Context, chatID string, _ int64) (string, error) {
		if chatID == "@b" {
			return entities.JoinStatusPending, nil
		}
		return "", nil
	}

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, result.Passed)
	require.True(t, result.Pending, "one awaiting request is enough")
}

func TestEvaluateGate_NotPendingWithoutRequests(t *testing.T) {
	env := newTestEnv()
	env.gates.ListEnabledFn = func(context.Context) ([]entities.GateChannel, error) {
		return gateChannels("@a", "@b"), nil
	}
	env.oracle.statuses["@a"] = "left"
	env.oracle.statuses["@b"] = "left"
	env.joins.StatusFn = func(_ context.Context, chatID string, _ int64) (string, error) {
		return entities.JoinStatusRejected, nil
	}

	result, err := env.uc.EvaluateGate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, result.Pending)
}
