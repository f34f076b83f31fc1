// Package config loads runtime configuration from the environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	// DBDriver selects the storage backend: "postgres" or "sqlite".
	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	LogLevel string `mapstructure:"log_level"`

	// SeedDemoData installs demo customers and readings alongside the
	// default tariffs when running the seed command.
	SeedDemoData bool `mapstructure:"seed_demo_data"`
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

func Load() (*Config, error) {
	// Optional; real deployments set env directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TIRTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "file:tirta.db?cache=shared")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_demo_data", false)

	// AutomaticEnv alone does not surface keys to Unmarshal; bind each one.
	for _, key := range []string{"http_addr", "db_driver", "db_dsn", "log_level", "seed_demo_data"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
