package main

import (
	"go.uber.org/fx"

	"github.com/luffex/filegate/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
