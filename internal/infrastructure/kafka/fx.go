package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

// Module provides the audit producer for fx dependency injection
var Module = fx.Module("kafka",
	fx.Provide(provideProducer),
)

func provideProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) deps.AuditProducer {
	producer := NewProducer(cfg, logger.With().Str("component", "audit-producer").Logger())

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return producer
}
