// Package seed installs the default tariff set and, optionally, demo data.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"gorm.io/gorm"
)

type defaultTariff struct {
	name string
	rate int64
	base int64
}

// Default tariff classes for a small municipal waterworks, in currency
// units per cubic meter plus a monthly base fee.
var defaultTariffs = []defaultTariff{
	{name: "Household A", rate: 3000, base: 15000},
	{name: "Household B", rate: 4000, base: 20000},
	{name: "Commercial", rate: 6500, base: 40000},
	{name: "Industrial", rate: 9000, base: 75000},
	{name: "Social", rate: 1500, base: 10000},
}

// EnsureDefaultTariffs seeds the tariff classes when missing. Idempotent.
func EnsureDefaultTariffs(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dt := range defaultTariffs {
			var count int64
			if err := tx.Model(&tariffdomain.Tariff{}).Where("name = ?", dt.name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			tariff := &tariffdomain.Tariff{
				ID:          node.Generate(),
				Name:        dt.name,
				RatePerUnit: decimal.NewFromInt(dt.rate),
				BaseFee:     decimal.NewFromInt(dt.base),
			}
			if err := tx.Create(tariff).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoCustomers seeds a handful of demo connections for local
// development. Skips customers whose meter number already exists.
func EnsureDemoCustomers(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	var tariff tariffdomain.Tariff
	if err := db.Where("name = ?", "Household A").First(&tariff).Error; err != nil {
		return err
	}

	demo := []customerdomain.Customer{
		{Name: "Budi Santoso", MeterNumber: "MTR-0001", Address: "Jl. Melati 12"},
		{Name: "Siti Rahayu", MeterNumber: "MTR-0002", Address: "Jl. Kenanga 4"},
		{Name: "Warung Maju", MeterNumber: "MTR-0003", Address: "Jl. Pasar Baru 88"},
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range demo {
			var count int64
			if err := tx.Model(&customerdomain.Customer{}).Where("meter_number = ?", c.MeterNumber).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			c.ID = node.Generate()
			c.Status = customerdomain.StatusActive
			c.TariffID = tariff.ID
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
