package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`

	Service       string `env:"LOG_SERVICE" envDefault:"pizza-service"`
	CaptureBodies bool   `env:"LOG_CAPTURE_BODIES" envDefault:"true"`
	MaxBodyBytes  int    `env:"LOG_MAX_BODY_BYTES" envDefault:"4096"`

	// Remote push target. Lines are shipped only when URL is set.
	URL           string        `env:"LOG_URL"`
	APIKey        string        `env:"LOG_API_KEY"`
	BatchSize     int           `env:"LOG_BATCH_SIZE" envDefault:"50"`
	FlushInterval time.Duration `env:"LOG_FLUSH_INTERVAL" envDefault:"5s"`
	PushTimeout   time.Duration `env:"LOG_PUSH_TIMEOUT" envDefault:"5s"`
}

// PushEnabled reports whether log lines are shipped to a remote endpoint.
func (c LogConfig) PushEnabled() bool {
	return c.URL != ""
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}
