package tariff

import (
	"github.com/tirtalabs/tirta/internal/tariff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff.service",
	fx.Provide(service.NewService),
)
