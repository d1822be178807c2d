package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. Port and environment
// name come from command-line flags instead; see cmd/api.
type Config struct {
	FeedBaseURL string
	Agency      string

	// VehicleRefreshInterval defaults to the main map cadence (10s);
	// schedule-view deployments run at 15s.
	VehicleRefreshInterval    time.Duration
	PredictionRefreshInterval time.Duration
	RouteFilter               string

	SuggestionWebhookURL string
	BugWebhookURL        string
	FeedbackWebhookURL   string
	ReminderWebhookURL   string

	TurnstileSecret string
	ReminderSecret  string

	RateLimitMax    int
	RateLimitWindow time.Duration

	NATSURL string
}

// Load reads .env (if present) and the environment. Absent settings fall
// back to permissive defaults; only malformed values are errors.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		FeedBaseURL: getenvDefault("FEED_BASE_URL", "https://retro.umoiq.com/service/publicXMLFeed"),
		Agency:      getenvDefault("FEED_AGENCY", "wku"),
		RouteFilter: os.Getenv("ROUTE_FILTER"),

		SuggestionWebhookURL: os.Getenv("SUGGESTION_WEBHOOK_URL"),
		BugWebhookURL:        os.Getenv("BUG_WEBHOOK_URL"),
		FeedbackWebhookURL:   os.Getenv("FEEDBACK_WEBHOOK_URL"),
		ReminderWebhookURL:   os.Getenv("REMINDER_WEBHOOK_URL"),

		TurnstileSecret: os.Getenv("TURNSTILE_SECRET"),
		ReminderSecret:  os.Getenv("REMINDER_SECRET"),

		NATSURL: os.Getenv("NATS_URL"),
	}

	var err error

	cfg.VehicleRefreshInterval, err = durationSeconds("VEHICLE_REFRESH_SEC", 10)
	if err != nil {
		return nil, err
	}

	cfg.PredictionRefreshInterval, err = durationSeconds("PREDICTION_REFRESH_SEC", 30)
	if err != nil {
		return nil, err
	}

	cfg.RateLimitMax, err = intValue("RATE_LIMIT_MAX", 3)
	if err != nil {
		return nil, err
	}

	cfg.RateLimitWindow, err = durationSeconds("RATE_LIMIT_WINDOW_SEC", 60)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// WebhookURLForType maps a feedback submission type to its outbound
// webhook. Returns "" when the type has no configured destination.
func (c *Config) WebhookURLForType(submissionType string) string {
	switch submissionType {
	case "suggestion":
		return c.SuggestionWebhookURL
	case "bug":
		return c.BugWebhookURL
	case "feedback":
		return c.FeedbackWebhookURL
	}
	return ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intValue(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func durationSeconds(key string, defSeconds int) (time.Duration, error) {
	n, err := intValue(key, defSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}
