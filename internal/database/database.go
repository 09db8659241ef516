package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// CoreModels lists the tables owned by the core services.
func CoreModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Space{},
		&models.Booking{},
		&models.MembershipPlan{},
		&models.Subscription{},
		&models.Payment{},
		&models.Notification{},
		&models.NotificationPreferences{},
		&models.Device{},
		&models.SystemLog{},
	}
}

// MigrateCore runs AutoMigrate for the core models.
func MigrateCore() error {
	return DB.AutoMigrate(CoreModels()...)
}

// MigrateModels runs AutoMigrate for arbitrary models (used by feature modules).
func MigrateModels(modelList []interface{}) error {
	if len(modelList) == 0 {
		return nil
	}
	return DB.AutoMigrate(modelList...)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// IsPostgres reports whether db talks to PostgreSQL. Row locks and advisory
// locks are only issued there.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
