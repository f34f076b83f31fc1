// Package observability provides the application logger.
package observability

import (
	"github.com/tirtalabs/tirta/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
)

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg != nil && cfg.LogLevel != "" {
		if err := level.Set(cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
