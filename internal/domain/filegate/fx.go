// Package filegate wires the delivery engine domain
package filegate

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/luffex/filegate/config"
	deliverytg "github.com/luffex/filegate/internal/domain/filegate/delivery/telegram"
	"github.com/luffex/filegate/internal/domain/filegate/repository/postgres"
	"github.com/luffex/filegate/internal/domain/filegate/sessions"
	"github.com/luffex/filegate/internal/domain/filegate/usecase/buissines"
	"github.com/luffex/filegate/internal/domain/filegate/workers"
	infratg "github.com/luffex/filegate/internal/infrastructure/telegram"
)

// Module provides the filegate domain for fx dependency injection
var Module = fx.Module("filegate",
	sessions.Module,
	workers.Module,
	fx.Provide(
		postgres.NewUserRepository,
		postgres.NewAdminRepository,
		postgres.NewGateChannelRepository,
		postgres.NewJoinRequestRepository,
		postgres.NewBundleRepository,
		postgres.NewDownloadRepository,
		postgres.NewSettingsRepository,
		buissines.NewUseCase,
		provideGateway,
		provideHandlers,
		provideRouter,
	),
	fx.Invoke(wireAndRegister),
)

func provideGateway(bot *infratg.Bot, cfg *config.GateConfig, logger zerolog.Logger) *deliverytg.Gateway {
	return deliverytg.NewGateway(bot.Raw(), cfg, logger.With().Str("component", "gateway").Logger())
}

func provideHandlers(uc *buissines.UseCase, gw *deliverytg.Gateway, cfg *config.GateConfig, logger zerolog.Logger) *deliverytg.Handlers {
	return deliverytg.NewHandlers(uc, gw, cfg, logger.With().Str("component", "handlers").Logger())
}

func provideRouter(handlers *deliverytg.Handlers, logger zerolog.Logger) *deliverytg.Router {
	return deliverytg.NewRouter(handlers, logger.With().Str("component", "router").Logger())
}

// wireAndRegister closes the use-case/transport cycle, registers the
// routes and seeds the default gate channel
func wireAndRegister(
	lc fx.Lifecycle,
	bot *infratg.Bot,
	gw *deliverytg.Gateway,
	uc *buissines.UseCase,
	deleter *workers.Deleter,
	router *deliverytg.Router,
	logger zerolog.Logger,
) {
	uc.AttachTransport(gw, gw)
	deleter.SetTransport(gw)
	router.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := uc.SeedDefaultGate(ctx); err != nil {
				logger.Error().Err(err).Msg("Failed to seed default gate channel")
			}
			router.SetupCommands(ctx, bot.Raw())
			return nil
		},
	})
}
