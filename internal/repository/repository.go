package repository

import (
	"github.com/abira1/Toi-Task/internal/models"
)

// MemberRepository defines the interface for roster data access
type MemberRepository interface {
	// List retrieves every roster entry
	List() ([]models.TeamMember, error)

	// FindByID finds a roster entry by ID
	FindByID(id string) (*models.TeamMember, error)

	// FindByEmail finds a roster entry whose email matches
	// case-insensitively. The match is a full collection scan so that
	// entries stored with mixed-case emails still resolve.
	FindByEmail(email string) (*models.TeamMember, error)

	// Upsert creates or replaces a roster entry
	Upsert(member *models.TeamMember) error

	// Delete removes a roster entry
	Delete(id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List retrieves all tasks with their comments
	List() ([]models.Task, error)

	// FindByID finds a task by ID with its comments
	FindByID(id string) (*models.Task, error)

	// Create creates a new task
	Create(task *models.Task) error

	// Update updates a task's mutable fields
	Update(task *models.Task) error

	// Delete removes a task and its comments
	Delete(id string) error

	// AddComment appends a comment to a task
	AddComment(comment *models.Comment) error

	// FindComment finds a comment on a task
	FindComment(taskID, commentID string) (*models.Comment, error)

	// DeleteComment removes a comment from a task
	DeleteComment(taskID, commentID string) error
}

// TokenRepository defines the interface for push-token data access
type TokenRepository interface {
	// Find returns the current token row for a user
	Find(userID string) (*models.FCMToken, error)

	// Save upserts the token for a user (last-write-wins)
	Save(userID, token string) error

	// Delete removes the token row for a user
	Delete(userID string) error
}
