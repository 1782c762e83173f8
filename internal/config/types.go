package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// EndpointSuffix is the worker's exchange path. Every probe request targets it.
const EndpointSuffix = "/exchange"

// Config holds every option the probe reads at startup. Immutable for the run.
type Config struct {
	Worker  WorkerConfig  `koanf:"worker"`
	Logging LoggingConfig `koanf:"logging"`
	Report  ReportConfig  `koanf:"report"`
}

// WorkerConfig identifies the deployed worker under test and the origin the
// probe asserts. Both have documented defaults pointing at the reference
// deployment; override them when probing another instance.
type WorkerConfig struct {
	URL    string `koanf:"url"`
	Origin string `koanf:"origin"`
}

// LoggingConfig expresses log level and format for the stderr logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ReportConfig optionally overrides the per-case output block template.
type ReportConfig struct {
	Block string `koanf:"block"`
}

// DefaultConfig returns the fallback configuration targeting the reference
// worker deployment.
func DefaultConfig() Config {
	return Config{
		Worker: WorkerConfig{
			URL:    "https://dot-pixel-canvas-api.yuzorayu-cloudflare.workers.dev/exchange",
			Origin: "https://yuzolabs.github.io",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Endpoint normalizes the configured URL into the effective request target:
// if it does not already end in the exchange suffix, trailing slashes are
// stripped and the suffix appended. Idempotent.
func (w WorkerConfig) Endpoint() string {
	target := strings.TrimSpace(w.URL)
	if strings.HasSuffix(target, EndpointSuffix) {
		return target
	}
	return strings.TrimRight(target, "/") + EndpointSuffix
}

// Validate rejects configurations the runner cannot act on.
func (c Config) Validate() error {
	target := strings.TrimSpace(c.Worker.URL)
	if target == "" {
		return errors.New("config: worker.url must not be empty")
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("config: worker.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: worker.url must be an http(s) URL, got %q", target)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: worker.url %q is missing a host", target)
	}
	if strings.TrimSpace(c.Worker.Origin) == "" {
		return errors.New("config: worker.origin must not be empty")
	}
	return nil
}
