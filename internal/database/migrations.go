package database

import (
	"fmt"
	"log"

	"github.com/abira1/Toi-Task/internal/models"
)

func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.TeamMember{},
		&models.Task{},
		&models.Comment{},
		&models.FCMToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}
