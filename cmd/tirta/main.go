package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/tirtalabs/tirta/internal/billing"
	"github.com/tirtalabs/tirta/internal/clock"
	"github.com/tirtalabs/tirta/internal/config"
	"github.com/tirtalabs/tirta/internal/customer"
	"github.com/tirtalabs/tirta/internal/finance"
	"github.com/tirtalabs/tirta/internal/ledger"
	"github.com/tirtalabs/tirta/internal/migration"
	"github.com/tirtalabs/tirta/internal/observability"
	"github.com/tirtalabs/tirta/internal/overview"
	"github.com/tirtalabs/tirta/internal/reading"
	"github.com/tirtalabs/tirta/internal/seed"
	"github.com/tirtalabs/tirta/internal/server"
	"github.com/tirtalabs/tirta/internal/tariff"
	"github.com/tirtalabs/tirta/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tirta",
		Short:   "Tirta water billing CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install default tariffs (and demo data when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations and seed, then start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			if err := runSeed(); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runSeed() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		fx.Invoke(func(gdb *gorm.DB, cfg *config.Config) error {
			if err := seed.EnsureDefaultTariffs(gdb); err != nil {
				return err
			}
			if cfg.SeedDemoData {
				return seed.EnsureDemoCustomers(gdb)
			}
			return nil
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		tariff.Module,
		customer.Module,
		reading.Module,
		billing.Module,
		ledger.Module,
		finance.Module,
		overview.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
