package repository

import (
	"github.com/abira1/Toi-Task/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves all tasks with their comments
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID finds a task by ID with its comments
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// Update updates a task's mutable fields
func (r *GormTaskRepository) Update(task *models.Task) error {
	// Select the full column set so false/zero values are written too
	// (clearing the completion flag must reach the store).
	return r.db.Model(task).
		Select("text", "completed", "completed_at", "likes").
		Updates(task).Error
}

// Delete removes a task and its comments
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, "task_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

// AddComment appends a comment to a task
func (r *GormTaskRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindComment finds a comment on a task
func (r *GormTaskRepository) FindComment(taskID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.
		First(&comment, "task_id = ? AND id = ?", taskID, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment from a task
func (r *GormTaskRepository) DeleteComment(taskID, commentID string) error {
	return r.db.Delete(&models.Comment{}, "task_id = ? AND id = ?", taskID, commentID).Error
}
