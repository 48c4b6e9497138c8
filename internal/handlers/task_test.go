package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/abira1/Toi-Task/internal/constants"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/models"
	"github.com/abira1/Toi-Task/internal/notify"
	"github.com/abira1/Toi-Task/internal/projector"
	"github.com/abira1/Toi-Task/internal/realtime"
	"github.com/abira1/Toi-Task/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	proj   *projector.Projector
	cancel context.CancelFunc
}

// fakeAuth stands in for the session middleware chain: it marks the
// request as the given signed-in user.
func fakeAuth(userID, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyName, name)
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func (s *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(s.T(), err)
	// A second pool connection would get its own empty in-memory
	// database, so keep the projector and the handlers on one.
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(s.T(), db.AutoMigrate(&models.Task{}, &models.Comment{}, &models.TeamMember{}, &models.FCMToken{}))
	s.db = db

	log := logger.NewLogger("test")
	bus := realtime.NewBus()
	tasks := repository.NewTaskRepository(db)
	members := repository.NewMemberRepository(db)
	tokens := repository.NewTokenRepository(db)

	s.proj = projector.New(tasks, members, bus, log)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.proj.Run(ctx)

	fanout := notify.NewFanout(members, tokens, &stubSender{}, log)
	dispatcher := notify.NewDispatcher(fanout, 8, log)
	dispatcher.Start(ctx)

	h := NewTaskHandler(s.proj, dispatcher, log)

	r := gin.New()
	store := cookie.NewStore([]byte("test-session-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(fakeAuth("user-1", "Alice"))

	api := r.Group("/api/tasks")
	{
		api.GET("", h.ListTasks)
		api.POST("", h.CreateTask)
		api.PATCH("/:id", h.UpdateTask)
		api.DELETE("/:id", h.DeleteTask)
		api.POST("/:id/toggle", h.ToggleTask)
		api.POST("/:id/like", h.LikeTask)
		api.POST("/:id/comments", h.AddComment)
		api.DELETE("/:id/comments/:commentId", h.DeleteComment)
	}
	s.router = r
}

func (s *TaskHandlerTestSuite) TearDownTest() {
	s.cancel()
	sqlDB, err := s.db.DB()
	require.NoError(s.T(), err)
	sqlDB.Close()
}

func (s *TaskHandlerTestSuite) request(method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TaskHandlerTestSuite) seedTask(userID, text string) models.Task {
	// The id lands in request URLs, so it must stay URL-safe.
	task := models.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	require.NoError(s.T(), s.db.Create(&task).Error)
	return task
}

func (s *TaskHandlerTestSuite) TestCreateTask() {
	w := s.request(http.MethodPost, "/api/tasks", map[string]string{"text": "write the report"})

	require.Equal(s.T(), http.StatusCreated, w.Code)

	var task models.Task
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &task))
	require.NotEmpty(s.T(), task.ID)
	require.Equal(s.T(), "user-1", task.UserID)
	require.Equal(s.T(), "write the report", task.Text)
	require.False(s.T(), task.Completed)
	require.Zero(s.T(), task.Likes)
	require.NotNil(s.T(), task.Comments)

	// The derived feed catches up via the change event.
	require.Eventually(s.T(), func() bool {
		tasks := s.proj.Tasks()
		return len(tasks) == 1 && tasks[0].ID == task.ID
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *TaskHandlerTestSuite) TestCreateTaskRequiresText() {
	w := s.request(http.MethodPost, "/api/tasks", map[string]string{})
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *TaskHandlerTestSuite) TestListTasks() {
	s.seedTask("user-1", "a")
	s.seedTask("user-2", "b")

	require.Eventually(s.T(), func() bool {
		w := s.request(http.MethodGet, "/api/tasks", nil)
		if w.Code != http.StatusOK {
			return false
		}
		var resp struct {
			Tasks []models.Task `json:"tasks"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			return false
		}
		return len(resp.Tasks) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *TaskHandlerTestSuite) TestToggleOwnTask() {
	task := s.seedTask("user-1", "mine")

	w := s.request(http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var stored models.Task
	require.NoError(s.T(), s.db.First(&stored, "id = ?", task.ID).Error)
	require.True(s.T(), stored.Completed)
	require.NotNil(s.T(), stored.CompletedAt)
}

func (s *TaskHandlerTestSuite) TestToggleForeignTaskIsOwnershipViolation() {
	task := s.seedTask("user-2", "not mine")

	w := s.request(http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(s.T(), http.StatusForbidden, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(s.T(), "OWNERSHIP_VIOLATION", resp.Code)
}

func (s *TaskHandlerTestSuite) TestUpdateForeignTaskIsOwnershipViolation() {
	task := s.seedTask("user-2", "not mine")

	w := s.request(http.MethodPatch, "/api/tasks/"+task.ID, map[string]string{"text": "hijack"})
	require.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *TaskHandlerTestSuite) TestDeleteOwnTask() {
	task := s.seedTask("user-1", "done with this")

	w := s.request(http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var count int64
	s.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	require.Zero(s.T(), count)
}

func (s *TaskHandlerTestSuite) TestLikeAnyTask() {
	task := s.seedTask("user-2", "likeable")

	for i := 0; i < 3; i++ {
		w := s.request(http.MethodPost, "/api/tasks/"+task.ID+"/like", nil)
		require.Equal(s.T(), http.StatusOK, w.Code)
	}

	var stored models.Task
	require.NoError(s.T(), s.db.First(&stored, "id = ?", task.ID).Error)
	require.Equal(s.T(), 3, stored.Likes)
}

func (s *TaskHandlerTestSuite) TestCommentOnForeignTask() {
	task := s.seedTask("user-2", "discussable")

	w := s.request(http.MethodPost, "/api/tasks/"+task.ID+"/comments", map[string]string{"text": "nice"})
	require.Equal(s.T(), http.StatusCreated, w.Code)

	var comment models.Comment
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &comment))
	require.Equal(s.T(), "user-1", comment.UserID)
	require.Equal(s.T(), task.ID, comment.TaskID)

	// Commenting is open to the team; deleting is author-only.
	del := s.request(http.MethodDelete, "/api/tasks/"+task.ID+"/comments/"+comment.ID, nil)
	require.Equal(s.T(), http.StatusOK, del.Code)
}

func (s *TaskHandlerTestSuite) TestDeleteForeignCommentIsRejected() {
	task := s.seedTask("user-1", "mine")
	comment := models.Comment{ID: "c1", TaskID: task.ID, UserID: "user-2", Text: "theirs", CreatedAt: time.Now()}
	require.NoError(s.T(), s.db.Create(&comment).Error)

	w := s.request(http.MethodDelete, "/api/tasks/"+task.ID+"/comments/c1", nil)
	require.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *TaskHandlerTestSuite) TestMissingTaskIs404() {
	w := s.request(http.MethodPost, "/api/tasks/no-such-task/toggle", nil)
	require.Equal(s.T(), http.StatusNotFound, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(s.T(), "NOT_FOUND", resp.Code)
}

func (s *TaskHandlerTestSuite) TestTodayFilterHidesStaleCompleted() {
	now := time.Now()
	stale := now.Add(-13 * time.Hour)
	if stale.Day() != now.Day() {
		s.T().Skip("completion window crosses midnight in this run")
	}

	fresh := s.seedTask("user-1", "fresh")
	old := models.Task{
		ID:          "stale-1",
		UserID:      "user-1",
		Text:        "finished long ago",
		CreatedAt:   now.Add(-14 * time.Hour),
		Completed:   true,
		CompletedAt: &stale,
	}
	require.NoError(s.T(), s.db.Create(&old).Error)

	require.Eventually(s.T(), func() bool {
		w := s.request(http.MethodGet, "/api/tasks?today=1", nil)
		var resp struct {
			Tasks []models.Task `json:"tasks"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			return false
		}
		return len(resp.Tasks) == 1 && resp.Tasks[0].ID == fresh.ID
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	require.Equal(t, "short", truncate("short", 80))
	require.Equal(t, "ab...", truncate("abcdef", 2))

	cut := truncate("予定を確認してください", 4)
	require.Equal(t, "予定を確...", cut)
	require.True(t, utf8.ValidString(cut))
}
