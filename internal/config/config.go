package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AIProvider        string
	AIKey             string
	GoogleAccessToken string
	DatabaseURL       string
	SQLitePath        string
	SlackBotToken     string
	SlackChannelID    string
	MaxFetchEmails    int
	MessagePause      int // seconds to wait after each processed message
	Env               string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		AIProvider:        GetEnv("AI_PROVIDER", "gemini"),
		AIKey:             GetEnv("AI_API_KEY", ""),
		GoogleAccessToken: GetEnv("GOOGLE_ACCESS_TOKEN", ""),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		SQLitePath:        GetEnv("SQLITE_PATH", "data/assistant.db"),
		SlackBotToken:     GetEnv("SLACK_BOT_TOKEN", ""),
		SlackChannelID:    GetEnv("SLACK_CHANNEL_ID", ""),
		MaxFetchEmails:    GetEnvInt("MAX_FETCH_EMAILS", 10),
		MessagePause:      GetEnvInt("MESSAGE_PAUSE_SECONDS", 2),
		Env:               GetEnv("ENV", "development"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func (c *Config) Validate() error {
	if c.AIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	if c.GoogleAccessToken == "" {
		return fmt.Errorf("GOOGLE_ACCESS_TOKEN is required")
	}
	if c.SlackBotToken != "" && c.SlackChannelID == "" {
		return fmt.Errorf("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set")
	}
	return nil
}
