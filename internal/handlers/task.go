package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/abira1/Toi-Task/internal/constants"
	"github.com/abira1/Toi-Task/internal/dto"
	apierrors "github.com/abira1/Toi-Task/internal/errors"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/middleware"
	"github.com/abira1/Toi-Task/internal/notify"
	"github.com/abira1/Toi-Task/internal/projector"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	projector  *projector.Projector
	dispatcher *notify.Dispatcher
	log        *logger.Logger
}

func NewTaskHandler(p *projector.Projector, dispatcher *notify.Dispatcher, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		projector:  p,
		dispatcher: dispatcher,
		log:        log,
	}
}

// ListTasks returns the current derived feed. With ?today=1 it
// applies the home-feed visibility window and ordering.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks := h.projector.Tasks()
	if c.Query("today") == "1" {
		tasks = projector.SortForHome(projector.VisibleToday(tasks, time.Now()))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask posts a task to the shared feed and kicks off the team
// notification detached from the write's success path.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	var req dto.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Task text is required")
		return
	}

	task, err := h.projector.AddTask(userID, req.Text)
	if err != nil {
		h.respondWriteError(c, err)
		return
	}

	name := sessionStringFromContext(c)
	h.dispatcher.Enqueue(
		[]string{userID},
		"New task posted",
		name+" added: "+truncate(task.Text, 80),
		map[string]string{"taskId": task.ID},
	)

	c.JSON(http.StatusCreated, task)
}

// ToggleTask flips a task's completion flag (owner only).
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if err := h.projector.ToggleCompletion(userID, c.Param("id")); err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateTask replaces a task's text (owner only).
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Task text is required")
		return
	}

	if err := h.projector.UpdateText(userID, c.Param("id"), req.Text); err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteTask removes a task (owner only).
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if err := h.projector.DeleteTask(userID, c.Param("id")); err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LikeTask increments the like counter. Open to any authorized
// identity, repeat likes included.
func (h *TaskHandler) LikeTask(c *gin.Context) {
	if err := h.projector.Like(c.Param("id")); err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddComment appends a comment to a task.
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Comment text is required")
		return
	}

	comment, err := h.projector.AddComment(userID, c.Param("id"), req.Text)
	if err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment (author only).
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if err := h.projector.DeleteComment(userID, c.Param("id"), c.Param("commentId")); err != nil {
		h.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondWriteError maps write failures to inline, recoverable
// responses at the point of action. Nothing is silently dropped.
func (h *TaskHandler) respondWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, projector.ErrTaskNotFound), errors.Is(err, projector.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, projector.ErrNotOwner), errors.Is(err, projector.ErrNotAuthor):
		apierrors.OwnershipViolation(c, err.Error())
	case errors.Is(err, projector.ErrEmptyText):
		apierrors.BadRequest(c, err.Error())
	default:
		h.log.Error("task write failed", "error", err)
		apierrors.InternalError(c, "Failed to save changes")
	}
}

// sessionStringFromContext returns the actor's display name for
// notification bodies, with the same fallback the web client used.
func sessionStringFromContext(c *gin.Context) string {
	session := sessions.Default(c)
	if v, ok := session.Get(constants.SessionKeyName).(string); ok && v != "" {
		return v
	}
	return "Someone"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
