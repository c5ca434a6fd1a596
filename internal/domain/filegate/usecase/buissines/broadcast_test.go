package buissines

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
)

func TestRunBroadcast_CountsSuccessesAndFailures(t *testing.T) {
	env := newTestEnv()
	env.transport.PayloadErr = func(chatID int64) error {
		if chatID%5 == 0 {
			return errors.New("bot was blocked by the user")
		}
		return nil
	}

	recipients := make([]int64, 23)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	report := env.uc.runBroadcast(context.Background(),
		dto.BroadcastPayload{Text: "hi", Target: consts.TargetAll},
		recipients,
		dto.MessageRef{ChatID: 1, MessageID: 1},
	)

	require.Equal(t, 23, report.Total)
	require.Equal(t, 4, report.Failed, "chats 5, 10, 15, 20")
	require.Equal(t, 19, report.Succeeded)
	require.Equal(t, 23, report.Succeeded+report.Failed, "every recipient gets exactly one attempt")
}

func TestRunBroadcast_ProgressEveryTenAndOnFinalRecipient(t *testing.T) {
	env := newTestEnv()
	env.transport.PayloadErr = func(chatID int64) error {
		if chatID == 3 {
			return errors.New("bot was blocked by the user")
		}
		return nil
	}

	recipients := make([]int64, 25)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	env.uc.runBroadcast(context.Background(),
		dto.BroadcastPayload{Text: "hi", Target: consts.TargetAll},
		recipients,
		dto.MessageRef{ChatID: 1, MessageID: 1},
	)

	// Edits after 10 and 20, on the final recipient, plus the summary
	require.Len(t, env.transport.edits, 4)
	require.Contains(t, env.transport.edits[0], "10/25")
	require.Contains(t, env.transport.edits[0], "✅ 9")
	require.Contains(t, env.transport.edits[0], "❌ 1")
	require.Contains(t, env.transport.edits[1], "20/25")
	require.Contains(t, env.transport.edits[2], "25/25")
	require.Contains(t, env.transport.edits[3], "✅ ꜱᴇɴᴛ: 24")
	require.Contains(t, env.transport.edits[3], "❌ ꜰᴀɪʟᴇᴅ: 1")
}

func TestRunBroadcast_FinalRecipientProgressOffTheTens(t *testing.T) {
	env := newTestEnv()

	recipients := make([]int64, 7)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	env.uc.runBroadcast(context.Background(),
		dto.BroadcastPayload{Text: "hi", Target: consts.TargetAll},
		recipients,
		dto.MessageRef{ChatID: 1, MessageID: 1},
	)

	// Progress on the final recipient even below the first tens mark
	require.Len(t, env.transport.edits, 2)
	require.Contains(t, env.transport.edits[0], "7/7")
}

func TestRunBroadcast_EmptyRecipientList(t *testing.T) {
	env := newTestEnv()

	report := env.uc.runBroadcast(context.Background(),
		dto.BroadcastPayload{Text: "hi", Target: consts.TargetAll},
		nil,
		dto.MessageRef{ChatID: 1, MessageID: 1},
	)

	require.Equal(t, 0, report.Total)
	require.Len(t, env.transport.edits, 1, "summary still published")
}

func TestBroadcastRecipients_TargetSelectsPremium(t *testing.T) {
	env := newTestEnv()

	var premiumOnly bool
	env.users.ListRecipientsFn = func(_ context.Context, p bool) ([]int64, error) {
		premiumOnly = p
		return []int64{1, 2}, nil
	}

	_, err := env.uc.BroadcastRecipients(context.Background(), consts.TargetPremium)
	require.NoError(t, err)
	require.True(t, premiumOnly)

	_, err = env.uc.BroadcastRecipients(context.Background(), consts.TargetAll)
	require.NoError(t, err)
	require.False(t, premiumOnly)
}
