// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Storage       StorageConfig           `mapstructure:"storage"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimit       int      `mapstructure:"rate_limit"`        // requests per window per IP
	RateLimitWindow int      `mapstructure:"rate_limit_window"` // milliseconds
	RequestTimeout  int      `mapstructure:"request_timeout"`   // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`  // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// StorageConfig selects and configures the record store for factories and consultations.
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Elasticsearch, when enabled, serves the factory catalogue from a search index.
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`

	// SeedDefaultCatalog loads the built-in factory network into an empty memory store.
	SeedDefaultCatalog bool `mapstructure:"seed_default_catalog"`
}

type DynamoDBConfig struct {
	Region             string `mapstructure:"region"`
	Endpoint           string `mapstructure:"endpoint"`
	FactoriesTable     string `mapstructure:"factories_table"`
	ConsultationsTable string `mapstructure:"consultations_table"`
	RegionIndex        string `mapstructure:"region_index"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	FactoryIndex string   `mapstructure:"factory_index"`
}

// CacheConfig configures the redis read-through cache in front of the factory store.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MatchingConfig tunes the recommendation composer.
type MatchingConfig struct {
	TopN             int  `mapstructure:"top_n"`
	SummaryTimeout   int  `mapstructure:"summary_timeout"` // milliseconds
	SummaryEnabled   bool `mapstructure:"summary_enabled"`
	BreakerThreshold int  `mapstructure:"breaker_threshold"`
	BreakerCooldown  int  `mapstructure:"breaker_cooldown"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// IntegrationConfig holds settings for CRM, AWS and chat integrations.
type IntegrationConfig struct {
	Zoho struct {
		Enabled   bool   `mapstructure:"enabled"`
		BaseURL   string `mapstructure:"base_url"`
		AuthToken string `mapstructure:"oauth_token"`
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	Slack struct {
		WebhookURL string `mapstructure:"webhook_url"`
	} `mapstructure:"slack"`
}

// GenAI providers.
const (
	ProviderGateway   = "gateway"
	ProviderAnthropic = "anthropic"
)

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		Provider  string `mapstructure:"provider"`
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		Model     string `mapstructure:"model"`
		MaxTokens int    `mapstructure:"max_tokens"`
		Timeout   int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// NotificationConfig holds settings for consultation notifications.
type NotificationConfig struct {
	AdminPhone string `mapstructure:"admin_phone"`
	AdminEmail string `mapstructure:"admin_email"`
	Email      struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	Slack struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"slack"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
