package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

// Module provides the clock and background workers
var Module = fx.Module("workers",
	fx.Provide(provideClock),
	fx.Provide(provideDeleter),
	fx.Provide(func(d *Deleter) deps.MessageDeleter { return d }),
)

func provideClock() deps.Clock {
	return SystemClock{}
}

func provideDeleter(lc fx.Lifecycle, clock deps.Clock, logger zerolog.Logger) *Deleter {
	deleter := NewDeleter(clock, logger.With().Str("component", "deleter").Logger())

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			deleter.Stop()
			return nil
		},
	})

	return deleter
}
