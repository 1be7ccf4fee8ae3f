package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_hub/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 16, cfg.Database.MaxOpenConns)
	assert.Equal(t, 7, cfg.Ingestion.WindowDays)
	assert.Equal(t, 8, cfg.Ingestion.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Ingestion.FetchTimeout)
	assert.Equal(t, domain.Categories, cfg.Ingestion.Categories)
	assert.Equal(t, "https://newsapi.org/v2/everything", cfg.NewsAPI.BaseURL)
	assert.Equal(t, 5000, cfg.Assistant.HistoryLimit)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("NEWS_HUB_TEST_API_KEY", "secret-key")
	t.Setenv("NEWS_HUB_TEST_DB_PASSWORD", "pa55")

	path := writeConfig(t, `
database:
  host: db
  password: ${NEWS_HUB_TEST_DB_PASSWORD}
news_api:
  api_key: ${NEWS_HUB_TEST_API_KEY}
ingestion:
  window_days: 3
  concurrency: 4
  fetch_timeout: 2s
  categories: [health, science]
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.NewsAPI.APIKey)
	assert.Equal(t, "pa55", cfg.Database.Password)
	assert.Equal(t, 3, cfg.Ingestion.WindowDays)
	assert.Equal(t, 4, cfg.Ingestion.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Ingestion.FetchTimeout)
	assert.Equal(t, []domain.Category{domain.CategoryHealth, domain.CategoryScience}, cfg.Ingestion.Categories)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Contains(t, cfg.Database.DSN(), "password=pa55")
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := writeConfig(t, "ingestion:\n  categories: [politics]\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
