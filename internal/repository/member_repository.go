package repository

import (
	"strings"

	"github.com/abira1/Toi-Task/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// List retrieves every roster entry
func (r *GormMemberRepository) List() ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindByID finds a roster entry by ID
func (r *GormMemberRepository) FindByID(id string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail scans the roster for a case-insensitive email match.
func (r *GormMemberRepository) FindByEmail(email string) (*models.TeamMember, error) {
	members, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range members {
		if strings.EqualFold(members[i].Email, email) {
			return &members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// Upsert creates or replaces a roster entry
func (r *GormMemberRepository) Upsert(member *models.TeamMember) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(member).Error
}

// Delete removes a roster entry
func (r *GormMemberRepository) Delete(id string) error {
	return r.db.Delete(&models.TeamMember{}, "id = ?", id).Error
}
