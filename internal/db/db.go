package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	res := db.Exec(`
        UPDATE businesses
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)
	if res.Error != nil {
		return nil, fmt.Errorf("backfill timezones: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Info("backfilled business timezones", "rows", res.RowsAffected, "timezone", cfg.DefaultTimezone)
	}

	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.PetOwner{},
		&models.BusinessOwner{},
		&models.Business{},
		&models.Staff{},
		&models.Address{},
		&models.BusinessSchedule{},
		&models.StaffSchedule{},
		&models.Service{},
		&models.Offer{},
		&models.Image{},
		&models.Pet{},
		&models.Appointment{},
		&models.AppointmentLine{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
