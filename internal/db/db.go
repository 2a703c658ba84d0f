package db

import (
	"github.com/imcbsglobal/task-webapp-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to PostgreSQL and migrates only the tables this service
// owns. The legacy accounting tables (acc_users, acc_master, report tables)
// already exist and are left untouched.
func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.PunchRecord{},
		&models.ShopLocation{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
