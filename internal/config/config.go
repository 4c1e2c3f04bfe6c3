// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the orchestrator needs to run. Missing
// required secrets abort startup instead of degrading silently.
type Config struct {
	DatabaseURL string
	HTTPPort    string
	CORSOrigins []string

	// Scheduling
	PassInterval      time.Duration
	FollowupGrace     time.Duration
	MaxHistoryEntries int
	DailyWindowStart  string // "HH:MM", empty = no gating
	DailyWindowEnd    string

	// Ingestion
	ClassifyMinConfidence float64

	Groq      GroqConfig
	WhatsApp  WhatsAppConfig
	Messenger MessengerConfig
	Rabbit    RabbitConfig
	Alert     AlertConfig
}

type GroqConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

type WhatsAppConfig struct {
	AccessToken string
	PhoneID     string
	BaseURL     string
}

type MessengerConfig struct {
	BridgeURL string
}

type RabbitConfig struct {
	User string
	Pass string
	Host string
	Port string
}

type AlertConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	Recipient string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPPort:    getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		PassInterval:      time.Duration(getEnvInt("PASS_INTERVAL_SECONDS", 1800)) * time.Second,
		FollowupGrace:     getEnvDuration("FOLLOWUP_GRACE", 24*time.Hour),
		MaxHistoryEntries: getEnvInt("MAX_HISTORY_ENTRIES", 3),
		DailyWindowStart:  os.Getenv("DAILY_WINDOW_START"),
		DailyWindowEnd:    os.Getenv("DAILY_WINDOW_END"),

		ClassifyMinConfidence: getEnvFloat("CLASSIFY_MIN_CONFIDENCE", 0.70),

		Groq: GroqConfig{
			APIKey:      os.Getenv("GROQ_API_KEY"),
			Model:       getEnv("GROQ_MODEL", "mixtral-8x7b-32768"),
			Temperature: getEnvFloat("TEMPERATURE", 0.7),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			PhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
			BaseURL:     getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		},
		Messenger: MessengerConfig{
			BridgeURL: os.Getenv("MESSENGER_BRIDGE_URL"),
		},
		Rabbit: RabbitConfig{
			User: getEnv("RABBITMQ_USER", "guest"),
			Pass: getEnv("RABBITMQ_PASS", "guest"),
			Host: getEnv("RABBITMQ_HOST", "localhost"),
			Port: getEnv("RABBITMQ_PORT", "5672"),
		},
		Alert: AlertConfig{
			Host:      os.Getenv("ALERT_SMTP_HOST"),
			Port:      getEnvInt("ALERT_SMTP_PORT", 465),
			User:      os.Getenv("ALERT_SMTP_USER"),
			Pass:      os.Getenv("ALERT_SMTP_PASS"),
			Recipient: os.Getenv("ALERT_RECIPIENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks required secrets and option sanity.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.PassInterval <= 0 {
		return fmt.Errorf("PASS_INTERVAL_SECONDS must be > 0")
	}
	if c.FollowupGrace <= 0 {
		return fmt.Errorf("FOLLOWUP_GRACE must be > 0")
	}
	if c.MaxHistoryEntries <= 0 {
		return fmt.Errorf("MAX_HISTORY_ENTRIES must be > 0")
	}
	if c.ClassifyMinConfidence < 0 || c.ClassifyMinConfidence > 1 {
		return fmt.Errorf("CLASSIFY_MIN_CONFIDENCE must be between 0 and 1")
	}
	// Either both window bounds or neither
	if (c.DailyWindowStart == "") != (c.DailyWindowEnd == "") {
		return fmt.Errorf("DAILY_WINDOW_START and DAILY_WINDOW_END must be set together")
	}
	for _, hm := range []string{c.DailyWindowStart, c.DailyWindowEnd} {
		if hm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("daily window bound %q must be HH:MM", hm)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
