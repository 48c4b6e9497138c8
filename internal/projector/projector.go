package projector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/models"
	"github.com/abira1/Toi-Task/internal/realtime"
	"github.com/abira1/Toi-Task/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("task belongs to another user")
	ErrNotAuthor       = errors.New("comment belongs to another user")
	ErrEmptyText       = errors.New("text must not be empty")
)

// Projector maintains standing subscriptions to the tasks and
// teamMembers collections and re-derives typed, sorted views on every
// change event. Each event fully replaces the previous derived list;
// there is no incremental patching. A failed refresh keeps the
// last-known view (stale-but-available) and records the error.
type Projector struct {
	tasks   repository.TaskRepository
	members repository.MemberRepository
	bus     *realtime.Bus
	log     *logger.Logger

	mu         sync.RWMutex
	taskView   []models.Task
	memberView []models.TeamMember
	lastErr    error
}

func New(tasks repository.TaskRepository, members repository.MemberRepository, bus *realtime.Bus, log *logger.Logger) *Projector {
	return &Projector{
		tasks:   tasks,
		members: members,
		bus:     bus,
		log:     log,
	}
}

// Run loads the initial snapshots and then applies change events until
// the context is cancelled. The view is only ever written here, so
// readers need no coordination beyond the lock.
func (p *Projector) Run(ctx context.Context) {
	taskCh, cancelTasks := p.bus.Subscribe(realtime.CollectionTasks)
	defer cancelTasks()
	memberCh, cancelMembers := p.bus.Subscribe(realtime.CollectionTeamMembers)
	defer cancelMembers()

	p.refreshTasks()
	p.refreshMembers()

	for {
		select {
		case <-ctx.Done():
			return
		case <-taskCh:
			p.refreshTasks()
		case <-memberCh:
			p.refreshMembers()
		}
	}
}

func (p *Projector) refreshTasks() {
	raw, err := p.tasks.List()
	if err != nil {
		p.log.Error("task snapshot refresh failed", "error", err)
		p.setErr(err)
		return
	}
	view := DeriveTasks(raw)
	p.mu.Lock()
	p.taskView = view
	p.lastErr = nil
	p.mu.Unlock()
}

func (p *Projector) refreshMembers() {
	raw, err := p.members.List()
	if err != nil {
		p.log.Error("roster snapshot refresh failed", "error", err)
		p.setErr(err)
		return
	}
	p.mu.Lock()
	p.memberView = raw
	p.lastErr = nil
	p.mu.Unlock()
}

func (p *Projector) setErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Tasks returns the current derived task list, newest first.
func (p *Projector) Tasks() []models.Task {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Task, len(p.taskView))
	copy(out, p.taskView)
	return out
}

// Members returns the current roster view.
func (p *Projector) Members() []models.TeamMember {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.TeamMember, len(p.memberView))
	copy(out, p.memberView)
	return out
}

// Err returns the error from the most recent failed refresh, or nil.
// The derived views stay served even while Err is non-nil.
func (p *Projector) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// DeriveTasks normalizes raw task records into the feed view:
// comments are always a list, zero-values fill absent counters, and
// tasks sort by creation time descending with stable ties.
func DeriveTasks(raw []models.Task) []models.Task {
	view := make([]models.Task, len(raw))
	copy(view, raw)
	for i := range view {
		if view[i].Comments == nil {
			view[i].Comments = []models.Comment{}
		}
		if view[i].Likes < 0 {
			view[i].Likes = 0
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].CreatedAt.After(view[j].CreatedAt)
	})
	return view
}

// AddTask creates a task for the acting user. The derived view is not
// touched here; it catches up on the next change event.
func (p *Projector) AddTask(userID, text string) (*models.Task, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	task := &models.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
		Completed: false,
		Likes:     0,
		Comments:  []models.Comment{},
	}
	if err := p.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return task, nil
}

// ToggleCompletion flips a task's completion flag. Only the owner may
// toggle; the check here is a courtesy with a descriptive error, the
// store remains the authority.
func (p *Projector) ToggleCompletion(actorID, taskID string) error {
	task, err := p.findTask(taskID)
	if err != nil {
		return err
	}
	if task.UserID != actorID {
		return ErrNotOwner
	}

	task.Completed = !task.Completed
	if task.Completed {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	if err := p.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return nil
}

// UpdateText replaces a task's text. Owner only.
func (p *Projector) UpdateText(actorID, taskID, text string) error {
	if text == "" {
		return ErrEmptyText
	}
	task, err := p.findTask(taskID)
	if err != nil {
		return err
	}
	if task.UserID != actorID {
		return ErrNotOwner
	}
	task.Text = text
	if err := p.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return nil
}

// DeleteTask removes a task and its comments. Owner only.
func (p *Projector) DeleteTask(actorID, taskID string) error {
	task, err := p.findTask(taskID)
	if err != nil {
		return err
	}
	if task.UserID != actorID {
		return ErrNotOwner
	}
	if err := p.tasks.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return nil
}

// Like increments a task's like counter. Any authorized identity may
// like, repeatedly; there is no per-viewer dedup.
func (p *Projector) Like(taskID string) error {
	task, err := p.findTask(taskID)
	if err != nil {
		return err
	}
	task.Likes++
	if err := p.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to like task: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return nil
}

// AddComment appends a comment authored by the acting user. Open to
// any authorized identity.
func (p *Projector) AddComment(actorID, taskID, text string) (*models.Comment, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if _, err := p.findTask(taskID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    actorID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := p.tasks.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return comment, nil
}

// DeleteComment removes a comment. Author only.
func (p *Projector) DeleteComment(actorID, taskID, commentID string) error {
	comment, err := p.tasks.FindComment(taskID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.UserID != actorID {
		return ErrNotAuthor
	}
	if err := p.tasks.DeleteComment(taskID, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	p.bus.Publish(realtime.CollectionTasks)
	return nil
}

// UpsertMember writes a roster entry (admin operation).
func (p *Projector) UpsertMember(member *models.TeamMember) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.Expertise == nil {
		member.Expertise = []string{}
	}
	if err := p.members.Upsert(member); err != nil {
		return fmt.Errorf("failed to save team member: %w", err)
	}
	p.bus.Publish(realtime.CollectionTeamMembers)
	return nil
}

// RemoveMember deletes a roster entry (admin operation).
func (p *Projector) RemoveMember(id string) error {
	if err := p.members.Delete(id); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	p.bus.Publish(realtime.CollectionTeamMembers)
	return nil
}

func (p *Projector) findTask(taskID string) (*models.Task, error) {
	task, err := p.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
