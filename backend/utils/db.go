package utils

import (
	"fmt"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProgress{},
		&models.LoginHistory{},
		&models.Lesson{},
		&models.Flashcard{},
		&models.Story{},
		&models.ReadingProgress{},
		&models.QuizAttempt{},
		&models.QuizProgress{},
		&models.Badge{},
		&models.UserBadge{},
	)
}
