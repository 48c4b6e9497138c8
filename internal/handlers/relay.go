package handlers

import (
	"net/http"
	"sync"

	"github.com/abira1/Toi-Task/internal/dto"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/notify"
	"github.com/gin-gonic/gin"
)

// RelayHandler is the standalone push relay surface: it performs the
// FCM dispatch server-side so browsers never talk to FCM directly.
type RelayHandler struct {
	sender notify.Sender
	log    *logger.Logger
}

func NewRelayHandler(sender notify.Sender, log *logger.Logger) *RelayHandler {
	return &RelayHandler{sender: sender, log: log}
}

// Health reports liveness.
func (h *RelayHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Notification relay is running",
	})
}

// SendNotification forwards one push request upstream.
func (h *RelayHandler) SendNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if req.FCMToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "FCM token is required"})
		return
	}

	result, err := h.sender.Send(c.Request.Context(), notify.Message{
		Token: req.FCMToken,
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		h.log.Error("relay send failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// SendBatchNotifications fans one payload out to many tokens. Each
// send is independently fallible; the response reports per-token
// outcomes and never fails the batch for individual errors.
func (h *RelayHandler) SendBatchNotifications(c *gin.Context) {
	var req dto.SendBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if len(req.Tokens) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tokens array is required"})
		return
	}

	results := make([]dto.BatchItemResult, len(req.Tokens))
	var wg sync.WaitGroup
	for i, token := range req.Tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			result, err := h.sender.Send(c.Request.Context(), notify.Message{
				Token: token,
				Title: req.Title,
				Body:  req.Body,
				Data:  req.Data,
			})
			if err != nil {
				results[i] = dto.BatchItemResult{Success: false, Error: err.Error()}
				return
			}
			results[i] = dto.BatchItemResult{Success: true, Result: result}
		}(i, token)
	}
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}
	h.log.Info("batch relay complete", "success", successCount, "total", len(req.Tokens))

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"results":      results,
		"successCount": successCount,
		"totalCount":   len(req.Tokens),
	})
}
