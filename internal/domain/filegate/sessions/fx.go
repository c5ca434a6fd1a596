package sessions

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

// Module provides the session store and its sweep scheduler
var Module = fx.Module("sessions",
	fx.Provide(provideStore),
	fx.Invoke(registerSweeper),
)

func provideStore(cfg *config.GateConfig, clock deps.Clock, logger zerolog.Logger) deps.SessionStore {
	return NewStore(cfg.SessionTTL, clock, logger.With().Str("component", "sessions").Logger())
}

// registerSweeper runs the idle-session sweep once a minute
func registerSweeper(lc fx.Lifecycle, store deps.SessionStore, logger zerolog.Logger) error {
	concrete, ok := store.(*Store)
	if !ok {
		// Swapped-in store implementations manage their own expiry
		return nil
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1m", concrete.Sweep); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			logger.Info().Msg("Session sweeper started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := scheduler.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return nil
}
