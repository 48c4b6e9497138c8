package models

import "time"

// FCMToken holds the current push delivery token for one user.
// One row per user, last-write-wins, no history.
type FCMToken struct {
	UserID    string    `gorm:"primarykey;type:varchar(64)" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"token"`
	UpdatedAt time.Time `json:"updatedAt"`
}
