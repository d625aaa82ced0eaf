package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type MetricsConfig struct {
	URL    string `env:"METRICS_URL"`
	APIKey string `env:"METRICS_API_KEY"`
	Source string `env:"METRICS_SOURCE"`

	Interval       time.Duration `env:"METRICS_INTERVAL" envDefault:"10s"`
	RequestTimeout time.Duration `env:"METRICS_REQUEST_TIMEOUT" envDefault:"5s"`
	InactiveAfter  time.Duration `env:"METRICS_INACTIVE_AFTER" envDefault:"100s"`

	// Batch sends every metric of a tick in a single payload instead of one POST per metric.
	Batch bool `env:"METRICS_BATCH" envDefault:"false"`
	// CumulativeRequests keeps per-method request counts across ticks.
	CumulativeRequests bool `env:"METRICS_CUMULATIVE_REQUESTS" envDefault:"false"`
}

func (c MetricsConfig) ExportEnabled() bool {
	return c.URL != ""
}

func LoadMetrics() (MetricsConfig, error) {
	var cfg MetricsConfig
	err := env.Parse(&cfg)
	return cfg, err
}
