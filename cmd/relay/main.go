package main

import (
	"log"

	"github.com/abira1/Toi-Task/internal/config"
	"github.com/abira1/Toi-Task/internal/handlers"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/notify"
	"github.com/gin-gonic/gin"
)

// The relay is a deliberately small standalone process: it exists so
// push dispatch happens server-side with the FCM server key, never
// from a browser.
func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	relayLogger := logger.NewLogger("relay")
	defer relayLogger.Sync()

	fcmClient := notify.NewFCMClient(cfg.FCMEndpoint, cfg.FCMServerKey)
	relayHandler := handlers.NewRelayHandler(fcmClient, relayLogger)

	r := gin.Default()
	r.GET("/health", relayHandler.Health)
	r.POST("/send-notification", relayHandler.SendNotification)
	r.POST("/send-batch-notifications", relayHandler.SendBatchNotifications)

	log.Printf("Notification relay starting on :%s", cfg.RelayPort)
	if err := r.Run(":" + cfg.RelayPort); err != nil {
		log.Fatalf("Failed to start relay: %v", err)
	}
}
