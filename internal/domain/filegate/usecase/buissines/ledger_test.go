package buissines

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

func TestDecideJoinRequest_AppliesOnce(t *testing.T) {
	env := newTestEnv()

	// First conditional update wins, later ones see a decided row
	decided := false
	var mu sync.Mutex
	env.joins.DecideFn = func(_ context.Context, _ string, _ int64, status string, _ int64) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if decided {
			return false, nil
		}
		decided = true
		return true, nil
	}

	status, err := env.uc.DecideJoinRequest(context.Background(), "@ch", 42, true, 7)
	require.NoError(t, err)
	require.Equal(t, entities.JoinStatusApproved, status)
	require.Equal(t, []int64{42}, env.transport.approved)

	_, err = env.uc.DecideJoinRequest(context.Background(), "@ch", 42, false, 8)
	require.ErrorIs(t, err, domerrors.ErrAlreadyDecided)
	require.Empty(t, env.transport.declined, "loser must not touch the transport")
}

func TestDecideJoinRequest_ConcurrentDecisionsOneWinner(t *testing.T) {
	env := newTestEnv()

	decided := false
	var mu sync.Mutex
	env.joins.DecideFn = func(_ context.Context, _ string, _ int64, _ string, _ int64) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if decided {
			return false, nil
		}
		decided = true
		return true, nil
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.uc.DecideJoinRequest(context.Background(), "@ch", 42, i == 0, int64(i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, domerrors.ErrAlreadyDecided)
		}
	}
	require.Equal(t, 1, winners, "exactly one decision must apply")
}

func TestDecideJoinRequest_TransportFailureKeepsDecision(t *testing.T) {
	env := newTestEnv()
	env.joins.DecideFn = func(context.Context, string, int64, string, int64) (bool, error) {
		return true, nil
	}
	env.transport.ApproveErr = errors.New("user already participant")

	status, err := env.uc.DecideJoinRequest(context.Background(), "@ch", 42, true, 7)
	require.NoError(t, err, "transport failure must not roll back the ledger")
	require.Equal(t, entities.JoinStatusApproved, status)
}

func TestRecordJoinRequest_UpsertsUserAndRequest(t *testing.T) {
	env := newTestEnv()

	var upsertedUser, upsertedRequest bool
	env.users.UpsertFn = func(_ context.Context, id int64, username string) error {
		upsertedUser = true
		require.Equal(t, int64(42), id)
		return nil
	}
	env.joins.UpsertPendingFn = func(_ context.Context, chatID string, userID int64, username string) error {
		upsertedRequest = true
		require.Equal(t, "@ch", chatID)
		require.Equal(t, "alice", username)
		return nil
	}

	err := env.uc.RecordJoinRequest(context.Background(), "@ch", 42, "alice")
	require.NoError(t, err)
	require.True(t, upsertedUser)
	require.True(t, upsertedRequest)
}
