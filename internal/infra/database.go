package infra

import (
	"fmt"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the gorm connection, migrates the schema and seeds the
// rows the storefront assumes exist.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table, then applies the seeds.
// Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Banner{},
		&model.StockMovement{},
		&model.ClickStat{},
		&model.ShippingConfig{},
		&model.ShippingTier{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySeeds(db)
}

// applySeeds inserts the root category and the shipping singleton. Existing
// rows are left alone.
func applySeeds(db *gorm.DB) error {
	root := model.Category{ID: model.RootCategoryID, Name: "Todos", Slug: "todos", Visible: true}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&root).Error; err != nil {
		return fmt.Errorf("seed root category: %w", err)
	}

	// Explicit ids leave the serial behind; move it past the seeded row.
	if err := db.Exec(`SELECT setval(pg_get_serial_sequence('categories', 'id'),
		GREATEST((SELECT COALESCE(MAX(id), 1) FROM categories), 1))`).Error; err != nil {
		return fmt.Errorf("sync category sequence: %w", err)
	}

	ship := model.ShippingConfig{ID: model.ShippingConfigID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ship).Error; err != nil {
		return fmt.Errorf("seed shipping config: %w", err)
	}
	return nil
}
