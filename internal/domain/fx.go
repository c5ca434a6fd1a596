// Package domain aggregates domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/luffex/filegate/internal/domain/filegate"
)

// Module combines all domain modules
var Module = fx.Options(
	filegate.Module,
)
