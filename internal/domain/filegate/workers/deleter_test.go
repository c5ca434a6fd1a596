package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// immediateClock skips delays so timers fire at once
type immediateClock struct{}

func (immediateClock) Now() time.Time                           { return time.Now() }
func (immediateClock) Sleep(_ context.Context, _ time.Duration) {}

// blockedClock never returns from Sleep until the context is canceled
type blockedClock struct{}

func (blockedClock) Now() time.Time { return time.Now() }
func (blockedClock) Sleep(ctx context.Context, _ time.Duration) {
	<-ctx.Done()
}

// recordingTransport records Delete calls
type recordingTransport struct {
	mu      sync.Mutex
	deleted []dto.MessageRef
	err     error
}

func (t *recordingTransport) Delete(_ context.Context, ref dto.MessageRef) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.deleted = append(t.deleted, ref)
	return nil
}

func (t *recordingTransport) Deleted() []dto.MessageRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]dto.MessageRef, len(t.deleted))
	copy(out, t.deleted)
	return out
}

func (t *recordingTransport) SendText(context.Context, int64, string) (dto.MessageRef, error) {
	return dto.MessageRef{}, nil
}
func (t *recordingTransport) SendLinkButton(context.Context, int64, string, string, string) (dto.MessageRef, error) {
	return dto.MessageRef{}, nil
}
func (t *recordingTransport) SendItem(context.Context, int64, entities.ContentItem) (dto.MessageRef, error) {
	return dto.MessageRef{}, nil
}
func (t *recordingTransport) SendPayload(context.Context, int64, dto.BroadcastPayload) error {
	return nil
}
func (t *recordingTransport) EditText(context.Context, dto.MessageRef, string) error { return nil }
func (t *recordingTransport) ApproveJoinRequest(context.Context, string, int64) error {
	return nil
}
func (t *recordingTransport) DeclineJoinRequest(context.Context, string, int64) error {
	return nil
}
func (t *recordingTransport) BotUsername(context.Context) (string, error) { return "testbot", nil }

var _ deps.Transport = (*recordingTransport)(nil)

func TestDeleter_DeletesAfterDelay(t *testing.T) {
	transport := &recordingTransport{}
	deleter := NewDeleter(immediateClock{}, zerolog.Nop())
	deleter.SetTransport(transport)

	ref := dto.MessageRef{ChatID: 100, MessageID: 7}
	deleter.Schedule(ref, 10*time.Minute)
	deleter.wg.Wait()

	require.Equal(t, []dto.MessageRef{ref}, transport.Deleted())
}

func TestDeleter_StopCancelsPendingTimers(t *testing.T) {
	transport := &recordingTransport{}
	deleter := NewDeleter(blockedClock{}, zerolog.Nop())
	deleter.SetTransport(transport)

	deleter.Schedule(dto.MessageRef{ChatID: 1, MessageID: 1}, time.Hour)
	deleter.Schedule(dto.MessageRef{ChatID: 2, MessageID: 2}, time.Hour)
	deleter.Stop()

	require.Empty(t, transport.Deleted(), "canceled timers must not delete")
}

func TestDeleter_FailedDeleteIsDropped(t *testing.T) {
	transport := &recordingTransport{err: context.DeadlineExceeded}
	deleter := NewDeleter(immediateClock{}, zerolog.Nop())
	deleter.SetTransport(transport)

	deleter.Schedule(dto.MessageRef{ChatID: 5, MessageID: 9}, time.Minute)
	deleter.wg.Wait()

	require.Empty(t, transport.Deleted())
}
