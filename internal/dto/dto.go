package dto

import (
	"encoding/json"

	"github.com/abira1/Toi-Task/internal/models"
)

// LoginRequest carries the identity-provider ID token from the client.
type LoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// SessionResponse describes the resolved session for the client.
type SessionResponse struct {
	User         *models.TeamMember `json:"user"`
	IsAdmin      bool               `json:"isAdmin"`
	IsAuthorized bool               `json:"isAuthorized"`
}

// AddTaskRequest creates a feed entry.
type AddTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateTaskRequest edits a task's text.
type UpdateTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddCommentRequest appends a comment to a task.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// SaveTokenRequest registers the caller's current push token.
type SaveTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// FeedSnapshot is one full derived view, pushed over the feed socket
// on every change event.
type FeedSnapshot struct {
	Type        string              `json:"type"`
	Tasks       []models.Task       `json:"tasks"`
	TeamMembers []models.TeamMember `json:"teamMembers"`
}

// FeedError is the error frame for subscription failures; the client
// keeps its last snapshot.
type FeedError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// SendNotificationRequest is the relay's single-send body.
type SendNotificationRequest struct {
	FCMToken string            `json:"fcmToken"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data"`
}

// SendBatchRequest is the relay's batch-send body.
type SendBatchRequest struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
}

// BatchItemResult is one per-token outcome in a batch response.
type BatchItemResult struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}
