package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	GinMode        string
	ServerPort     string
	RelayPort      string
	AdminEmails    []string
	AllowedOrigins []string
	IdentitySecret string
	FCMServerKey   string
	FCMEndpoint    string
}

func Load() *Config {
	// Missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "toitask"),
		DBPassword:     getEnv("DB_PASSWORD", "toitaskpassword"),
		DBName:         getEnv("DB_NAME", "toitask"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		RelayPort:      getEnv("RELAY_PORT", "8081"),
		AdminEmails:    splitList(getEnv("ADMIN_EMAILS", "")),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		IdentitySecret: getEnv("IDENTITY_SECRET", ""),
		FCMServerKey:   getEnv("FCM_SERVER_KEY", ""),
		FCMEndpoint:    getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
