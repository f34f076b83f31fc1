package overview

import (
	"github.com/tirtalabs/tirta/internal/overview/service"
	"go.uber.org/fx"
)

var Module = fx.Module("overview.service",
	fx.Provide(service.NewService),
)
