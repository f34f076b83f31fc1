// Package migration keeps the database schema in step with the models.
package migration

import (
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

func Run(db *gorm.DB, log *zap.Logger) error {
	log.Info("running schema migration")
	return db.AutoMigrate(
		&tariffdomain.Tariff{},
		&customerdomain.Customer{},
		&readingdomain.Reading{},
		&billingdomain.Bill{},
		&ledgerdomain.Transaction{},
	)
}
