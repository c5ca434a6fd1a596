package cache

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

// Module provides the settings cache for fx dependency injection
var Module = fx.Module("cache",
	fx.Provide(provideSettingsReader),
)

func provideSettingsReader(repo deps.SettingsRepository, logger zerolog.Logger) deps.SettingsReader {
	return NewSettingsCache(repo, logger.With().Str("component", "settings-cache").Logger())
}
