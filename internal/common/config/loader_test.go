package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: factory-matching\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.True(t, cfg.Storage.SeedDefaultCatalog)
	assert.Equal(t, "yoribansanghoi-factories", cfg.Storage.DynamoDB.FactoriesTable)
	assert.Equal(t, "region-index", cfg.Storage.DynamoDB.RegionIndex)
	assert.Equal(t, 3, cfg.Matching.TopN)
	assert.Equal(t, 5000, cfg.Matching.SummaryTimeout)
	assert.Equal(t, ProviderGateway, cfg.APIs.GenAI.Provider)
	assert.Equal(t, "ap-northeast-2", cfg.Storage.DynamoDB.Region)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_Overrides(t *testing.T) {
	t.Setenv("TEST_GENAI_URL", "http://genai.local")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := LoadFromFile(writeConfig(t, `
server:
  port: 9090
storage:
  backend: dynamodb
  dynamodb:
    region: us-east-1
    endpoint: http://localhost:8000
matching:
  top_n: 5
  summary_enabled: true
apis:
  genai:
    provider: anthropic
    base_url: ${TEST_GENAI_URL}
workers:
  match-factories:
    enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendDynamoDB, cfg.Storage.Backend)
	assert.False(t, cfg.Storage.SeedDefaultCatalog)
	assert.Equal(t, "us-east-1", cfg.Storage.DynamoDB.Region)
	assert.Equal(t, 5, cfg.Matching.TopN)
	assert.Equal(t, "http://genai.local", cfg.APIs.GenAI.BaseURL)
	assert.Equal(t, "sk-test", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.APIs.GenAI.Model)

	worker := GetWorkerConfig(cfg, "match-factories")
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"camunda without broker", "camunda:\n  enabled: true\n"},
		{"unknown backend", "storage:\n  backend: mongo\n"},
		{"postgres without host", "storage:\n  backend: postgres\n  postgres:\n    database: factories\n"},
		{"cache without address", "cache:\n  enabled: true\n"},
		{"unknown provider", "apis:\n  genai:\n    provider: oracle\n"},
		{"negative top n", "matching:\n  top_n: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"sync-crm-lead": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "sync-crm-lead"))
	assert.True(t, IsWorkerEnabled(cfg, "match-factories"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "sync-crm-lead").MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(GetWorkerConfig(cfg, "other").Timeout))
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=f sslmode=disable",
		PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "f", SSLMode: "disable"}.GetDSN())
}
