// Package infrastructure aggregates infrastructure modules
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/luffex/filegate/internal/infrastructure/cache"
	"github.com/luffex/filegate/internal/infrastructure/database"
	"github.com/luffex/filegate/internal/infrastructure/kafka"
	"github.com/luffex/filegate/internal/infrastructure/logger"
	"github.com/luffex/filegate/internal/infrastructure/telegram"
)

// Module combines all infrastructure modules
var Module = fx.Options(
	logger.Module,
	database.Module,
	telegram.Module,
	kafka.Module,
	cache.Module,
)
