package models

import "time"

// Stats tracks per-member activity counters. All values are
// non-negative; today they are set at roster creation and only
// mutated by admin updates.
type Stats struct {
	TasksCompleted int `gorm:"not null;default:0" json:"tasksCompleted"`
	Streak         int `gorm:"not null;default:0" json:"streak"`
	Points         int `gorm:"not null;default:0" json:"points"`
}

// TeamMember is a roster entry. Email is the cross-reference key for
// authorization and is compared case-insensitively; the ID may come
// from the identity provider or from an older roster id scheme, so it
// is carried forward as-is once assigned.
type TeamMember struct {
	ID         string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role       string    `gorm:"type:varchar(50);not null" json:"role"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Avatar     string    `gorm:"type:text" json:"avatar"`
	CoverImage string    `gorm:"type:text" json:"coverImage,omitempty"`
	Expertise  []string  `gorm:"serializer:json" json:"expertise"`
	Stats      Stats     `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
