package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Message is one push delivery request: a device token plus the
// notification content.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender dispatches a single push request. One attempt per call, no
// retry and no batching; fan-out belongs to the caller.
type Sender interface {
	Send(ctx context.Context, msg Message) (json.RawMessage, error)
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

type fcmWebpush struct {
	Notification struct {
		Icon    string `json:"icon"`
		Badge   string `json:"badge"`
		Vibrate []int  `json:"vibrate"`
	} `json:"notification"`
}

type fcmPayload struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data"`
	Webpush      fcmWebpush        `json:"webpush"`
}

// FCMClient sends pushes through the FCM legacy HTTP endpoint using a
// server key.
type FCMClient struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

func NewFCMClient(endpoint, serverKey string) *FCMClient {
	return &FCMClient{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{},
	}
}

// Send posts one delivery request. A non-2xx upstream status is an
// error carrying the upstream response body.
func (c *FCMClient) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	if msg.Token == "" {
		return nil, fmt.Errorf("fcm token is required")
	}

	payload := fcmPayload{
		To: msg.Token,
		Notification: fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
			Icon:  "/icon-192.png",
			Badge: "/icon-192.png",
		},
		Data: msg.Data,
	}
	if payload.Data == nil {
		payload.Data = map[string]string{}
	}
	payload.Webpush.Notification.Icon = "/icon-192.png"
	payload.Webpush.Notification.Badge = "/icon-192.png"
	payload.Webpush.Notification.Vibrate = []int{200, 100, 200}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fcm request failed: %w", err)
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read fcm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fcm returned %d: %s", resp.StatusCode, string(result))
	}
	return json.RawMessage(result), nil
}
