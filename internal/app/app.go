// Package app assembles the filegate application
package app

import (
	"go.uber.org/fx"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain"
	"github.com/luffex/filegate/internal/infrastructure"
)

// CreateApp builds the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		domain.Module,
	)
}
