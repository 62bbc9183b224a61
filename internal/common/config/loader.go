// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it and
// applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are conventionally supplied by plain env vars.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.APIs.GenAI.APIKey, "GENAI_API_KEY")
	if cfg.APIs.GenAI.Provider == ProviderAnthropic {
		setIfEmpty(&cfg.APIs.GenAI.APIKey, "ANTHROPIC_API_KEY")
	}

	setIfEmpty(&cfg.Integrations.Zoho.AuthToken, "ZOHO_CRM_OAUTH_TOKEN")
	setIfEmpty(&cfg.Integrations.Slack.WebhookURL, "SLACK_WEBHOOK_URL")

	setIfEmpty(&cfg.Notifications.AdminPhone, "ADMIN_PHONE")
	setIfEmpty(&cfg.Notifications.AdminEmail, "ADMIN_EMAIL")

	setIfEmpty(&cfg.Storage.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Storage.Postgres.Password, "DB_PASSWORD")
}

func setIfEmpty(target *string, envKey string) {
	if *target != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*target = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "factory-matching"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 100
	}
	if cfg.Server.RateLimitWindow == 0 {
		cfg.Server.RateLimitWindow = 60000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendMemory
		cfg.Storage.SeedDefaultCatalog = true
	}
	if cfg.Storage.DynamoDB.FactoriesTable == "" {
		cfg.Storage.DynamoDB.FactoriesTable = "yoribansanghoi-factories"
	}
	if cfg.Storage.DynamoDB.ConsultationsTable == "" {
		cfg.Storage.DynamoDB.ConsultationsTable = "yoribansanghoi-consultations"
	}
	if cfg.Storage.DynamoDB.RegionIndex == "" {
		cfg.Storage.DynamoDB.RegionIndex = "region-index"
	}
	if cfg.Storage.Elasticsearch.FactoryIndex == "" {
		cfg.Storage.Elasticsearch.FactoryIndex = "factories"
	}
	if cfg.Storage.Postgres.MaxConnections == 0 {
		cfg.Storage.Postgres.MaxConnections = 25
	}
	if cfg.Storage.Postgres.MaxIdle == 0 {
		cfg.Storage.Postgres.MaxIdle = 5
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = "disable"
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300000
	}

	if cfg.Matching.TopN == 0 {
		cfg.Matching.TopN = 3
	}
	if cfg.Matching.SummaryTimeout == 0 {
		cfg.Matching.SummaryTimeout = 5000
	}
	if cfg.Matching.BreakerThreshold == 0 {
		cfg.Matching.BreakerThreshold = 5
	}
	if cfg.Matching.BreakerCooldown == 0 {
		cfg.Matching.BreakerCooldown = 30000
	}

	if cfg.APIs.GenAI.Provider == "" {
		cfg.APIs.GenAI.Provider = ProviderGateway
	}
	if cfg.APIs.GenAI.MaxTokens == 0 {
		cfg.APIs.GenAI.MaxTokens = 256
	}
	if cfg.APIs.GenAI.Timeout == 0 {
		cfg.APIs.GenAI.Timeout = 5000
	}
	if cfg.APIs.GenAI.Model == "" && cfg.APIs.GenAI.Provider == ProviderAnthropic {
		cfg.APIs.GenAI.Model = "claude-sonnet-4-20250514"
	}

	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "ap-northeast-2"
	}
	if cfg.Storage.DynamoDB.Region == "" {
		cfg.Storage.DynamoDB.Region = cfg.Integrations.AWS.Region
	}
	if cfg.Integrations.Zoho.BaseURL == "" {
		cfg.Integrations.Zoho.BaseURL = "https://www.zohoapis.com/crm/v2"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}

	switch cfg.Storage.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if cfg.Storage.DynamoDB.Region == "" {
			return fmt.Errorf("storage.dynamodb.region is required")
		}
	case BackendPostgres:
		p := cfg.Storage.Postgres
		if p.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if p.Database == "" {
			return fmt.Errorf("storage.postgres.database is required")
		}
		if p.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", cfg.Storage.Backend)
	}

	if cfg.Storage.Elasticsearch.Enabled && len(cfg.Storage.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("storage.elasticsearch.addresses is required when the search index is enabled")
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when the cache is enabled")
	}

	switch cfg.APIs.GenAI.Provider {
	case ProviderGateway, ProviderAnthropic:
	default:
		return fmt.Errorf("apis.genai.provider %q is not supported", cfg.APIs.GenAI.Provider)
	}

	if cfg.Matching.TopN < 1 {
		return fmt.Errorf("matching.top_n must be positive")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
