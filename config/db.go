package config

import (
	"fmt"
	"strings"

	"rightssphere/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the datastore named by c and migrates the schema.
func OpenDB(c DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "postgres":
		if c.URL == "" {
			return nil, fmt.Errorf("open database: DATABASE_URL is not set")
		}
		dialector = postgres.Open(c.URL)
	case "sqlite":
		dialector = sqlite.Open(c.URL)
	default:
		return nil, fmt.Errorf("open database: unsupported driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every in-memory sqlite connection is its own database
	if c.Driver == "sqlite" && strings.Contains(c.URL, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Alert{},
		&models.LegalGuide{},
		&models.InteractionLog{},
		&models.RightsCard{},
		&models.Script{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
