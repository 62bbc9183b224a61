// internal/workers/consultation/sync-crm-lead/config.go
package synccrmlead

import (
	"time"

	"factory-matching/internal/common/config"
)

type Config struct {
	Enabled    bool
	Timeout    time.Duration
	LeadSource string
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		Enabled:    appConfig.Integrations.Zoho.Enabled,
		Timeout:    30 * time.Second,
		LeadSource: "Website Consultation",
	}
	if wcfg, ok := appConfig.Workers[TaskType]; ok && wcfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return cfg
}
