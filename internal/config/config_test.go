package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/outreach")
	t.Setenv("GROQ_API_KEY", "gsk_test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.PassInterval)
	assert.Equal(t, 24*time.Hour, cfg.FollowupGrace)
	assert.Equal(t, 3, cfg.MaxHistoryEntries)
	assert.Equal(t, 0.70, cfg.ClassifyMinConfidence)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.Groq.Model)
	assert.Empty(t, cfg.DailyWindowStart)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadMissingGroqKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/outreach")
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GROQ_API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PASS_INTERVAL_SECONDS", "60")
	t.Setenv("FOLLOWUP_GRACE", "48h")
	t.Setenv("MAX_HISTORY_ENTRIES", "5")
	t.Setenv("CLASSIFY_MIN_CONFIDENCE", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.PassInterval)
	assert.Equal(t, 48*time.Hour, cfg.FollowupGrace)
	assert.Equal(t, 5, cfg.MaxHistoryEntries)
	assert.Equal(t, 0.9, cfg.ClassifyMinConfidence)
}

func TestLoadDailyWindowMustBePaired(t *testing.T) {
	setRequired(t)
	t.Setenv("DAILY_WINDOW_START", "09:00")

	_, err := Load()
	assert.ErrorContains(t, err, "DAILY_WINDOW_START and DAILY_WINDOW_END")
}

func TestLoadDailyWindowFormat(t *testing.T) {
	setRequired(t)
	t.Setenv("DAILY_WINDOW_START", "9am")
	t.Setenv("DAILY_WINDOW_END", "18:00")

	_, err := Load()
	assert.ErrorContains(t, err, "must be HH:MM")
}

func TestLoadDailyWindowValid(t *testing.T) {
	setRequired(t)
	t.Setenv("DAILY_WINDOW_START", "09:00")
	t.Setenv("DAILY_WINDOW_END", "18:00")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "09:00", cfg.DailyWindowStart)
	assert.Equal(t, "18:00", cfg.DailyWindowEnd)
}
