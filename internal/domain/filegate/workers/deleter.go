// Package workers contains supervised background tasks
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
)

// Deleter removes dispatched messages after a delay. Timers are
// process-local; messages pending deletion at shutdown survive until
// the chat is cleaned manually.
type Deleter struct {
	clock  deps.Clock
	logger zerolog.Logger

	mu        sync.RWMutex
	transport deps.Transport

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDeleter creates a message deleter. The transport is attached later
// via SetTransport because the delivery layer is constructed after the
// domain services.
func NewDeleter(clock deps.Clock, logger zerolog.Logger) *Deleter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Deleter{
		clock:  clock,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetTransport attaches the outbound transport
func (d *Deleter) SetTransport(t deps.Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transport = t
}

// Schedule registers one fire-and-forget deletion after delay.
// A failed deletion is logged and dropped, never retried.
func (d *Deleter) Schedule(ref dto.MessageRef, delay time.Duration) {
	d.wg.Add(1)
	go d.run(ref, delay)
}

func (d *Deleter) run(ref dto.MessageRef, delay time.Duration) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Interface("panic", r).
				Int64("chat_id", ref.ChatID).
				Int("message_id", ref.MessageID).
				Msg("Panic in delete timer")
		}
	}()

	d.clock.Sleep(d.ctx, delay)
	if d.ctx.Err() != nil {
		return
	}

	d.mu.RLock()
	transport := d.transport
	d.mu.RUnlock()
	if transport == nil {
		d.logger.Warn().Msg("Delete timer fired before transport attached")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := transport.Delete(ctx, ref); err != nil {
		d.logger.Warn().
			Err(err).
			Int64("chat_id", ref.ChatID).
			Int("message_id", ref.MessageID).
			Msg("Failed to delete expired message")
		return
	}

	d.logger.Debug().
		Int64("chat_id", ref.ChatID).
		Int("message_id", ref.MessageID).
		Msg("Expired message deleted")
}

// Stop cancels pending timers and waits for running ones to settle
func (d *Deleter) Stop() {
	d.cancel()
	d.wg.Wait()
}
