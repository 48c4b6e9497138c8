package models

import "time"

// Task is one entry in the shared feed. Completion toggling, text
// edits and deletion are restricted to the owning user; likes and
// comments are open to any authorized identity. Likes carry no
// per-viewer dedup.
type Task struct {
	ID          string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	UserID      string     `gorm:"index;type:varchar(64);not null" json:"userId"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time  `json:"createdAt"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Likes       int        `gorm:"not null;default:0" json:"likes"`

	// Relations
	Comments []Comment `gorm:"foreignKey:TaskID" json:"comments"`
}

// Comment is append-only from the client's perspective and deletable
// only by its author.
type Comment struct {
	ID        string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	TaskID    string    `gorm:"index;type:varchar(64);not null" json:"taskId"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
