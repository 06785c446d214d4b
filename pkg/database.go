package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/matnas-digital/questionnaire-service/internal/config"
	"github.com/matnas-digital/questionnaire-service/internal/models"
)

// InitDatabase opens the PostgreSQL connection, configures the pool and
// runs migrations.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if cfg.Environment == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the schema. The partial unique index cannot be expressed
// through struct tags, so it is created with raw SQL: it is what guarantees
// at most one pending invitation per email under concurrent creates.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Questionnaire{},
		&models.Question{},
		&models.Response{},
		&models.QuestionnaireCompletion{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending_email
		 ON invitations (email) WHERE status = 'pending'`,
	).Error; err != nil {
		return fmt.Errorf("failed to create pending invitation index: %w", err)
	}

	return nil
}
