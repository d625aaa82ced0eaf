package config

import (
	"testing"
	"time"
)

func TestLoadMetricsDefaults(t *testing.T) {
	cfg, err := LoadMetrics()
	if err != nil {
		t.Fatalf("LoadMetrics() error = %v", err)
	}
	if cfg.Interval != 10*time.Second {
		t.Fatalf("Interval = %v, want 10s", cfg.Interval)
	}
	if cfg.InactiveAfter != 100*time.Second {
		t.Fatalf("InactiveAfter = %v, want 100s", cfg.InactiveAfter)
	}
	if cfg.Batch || cfg.CumulativeRequests {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if cfg.ExportEnabled() {
		t.Fatal("export should be disabled without METRICS_URL")
	}
}

func TestLoadMetricsOverrides(t *testing.T) {
	t.Setenv("METRICS_URL", "https://otlp.example.com/otlp/v1/metrics")
	t.Setenv("METRICS_API_KEY", "123:abc")
	t.Setenv("METRICS_INTERVAL", "2s")
	t.Setenv("METRICS_BATCH", "true")

	cfg, err := LoadMetrics()
	if err != nil {
		t.Fatalf("LoadMetrics() error = %v", err)
	}
	if !cfg.ExportEnabled() {
		t.Fatal("export should be enabled")
	}
	if cfg.Interval != 2*time.Second || !cfg.Batch || cfg.APIKey != "123:abc" {
		t.Fatalf("unexpected metrics config: %+v", cfg)
	}
}
