// internal/workers/consultation/send-consultation-notification/config.go
package sendconsultationnotification

import (
	"time"

	"factory-matching/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// FailWhenUndelivered fails the job when every attempted channel failed.
	FailWhenUndelivered bool
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	cfg := &Config{Timeout: 30 * time.Second, FailWhenUndelivered: true}
	if wcfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return cfg
}
