package finance

import (
	"github.com/tirtalabs/tirta/internal/finance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("finance.service",
	fx.Provide(service.NewService),
)
