package repository

import (
	"time"

	"github.com/abira1/Toi-Task/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Find returns the current token row for a user
func (r *GormTokenRepository) Find(userID string) (*models.FCMToken, error) {
	var token models.FCMToken
	if err := r.db.First(&token, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Save upserts the token for a user (last-write-wins)
func (r *GormTokenRepository) Save(userID, token string) error {
	row := models.FCMToken{
		UserID:    userID,
		Token:     token,
		UpdatedAt: time.Now(),
	}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

// Delete removes the token row for a user
func (r *GormTokenRepository) Delete(userID string) error {
	return r.db.Delete(&models.FCMToken{}, "user_id = ?", userID).Error
}
