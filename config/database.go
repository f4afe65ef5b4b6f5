package config

import (
	"fmt"

	"github.com/aronh-dev/GuestSphere/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB initializes the database connection and performs migrations
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := MigrateSchema(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	ensureCodeSettingTypeIndex()
}

// MigrateSchema runs AutoMigrate for every model. Split out so tests can
// run it against their own database handle.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.BrandMember{},
		&models.Event{},
		&models.CodeTemplate{},
		&models.CodeBrandAttachment{},
		&models.EventCodeActivation{},
		&models.CodeSetting{},
		&models.Code{},
		&models.TicketOrder{},
	)
}

// ensureCodeSettingTypeIndex creates the partial unique index that limits
// an event to one code setting per fixed legacy type. Custom rows are
// exempt; the migration logic deduplicates those by template name instead.
func ensureCodeSettingTypeIndex() {
	err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_code_settings_event_type
		ON code_settings (event_id, type)
		WHERE type <> 'custom' AND deleted_at IS NULL
	`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create code settings type index: %v", err))
	}
}
