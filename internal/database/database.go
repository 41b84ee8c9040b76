package database

import (
	"fmt"
	"log/slog"

	"trip-planner/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the configured database
func Connect(driver, dsn string) error {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := Open(dialector)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite allows one writer; serialise through a single connection
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	slog.Info("database connection established", "driver", driver)
	return nil
}

// Open opens a gorm handle with the settings the invitation core relies on.
// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
}

// Models lists every table owned by this service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Trip{},
		&models.TripParticipant{},
		&models.Invitation{},
	}
}

// AutoMigrate runs automatic migrations for all models. Used for sqlite and in
// tests; postgres deployments use the SQL migrations applied by tripctl.
func AutoMigrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
