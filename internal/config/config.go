package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultListenAddress  = ":9101"
	DefaultProviderDomain = "turboflakes.io"
	DefaultRequestTimeout = 10 * time.Second
	DefaultUserAgent      = "turboflakes-exporter/1.1"
	DefaultConcurrency    = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// Environment variables that override file settings.
const (
	EnvTargetURLs     = "TARGET_URLS"
	EnvTargetURLsFile = "TARGET_URLS_FILE"
	EnvLogLevel       = "LOG_LEVEL"
	EnvListenAddress  = "LISTEN_ADDRESS"
)

// Config is the full exporter configuration.
type Config struct {
	// ListenAddress is the host:port the HTTP server binds to.
	ListenAddress string `yaml:"listen_address"`

	// TargetURLs is the inline target blob. Entries are separated by commas
	// and/or newlines; a YAML list is joined with newlines.
	TargetURLs TargetList `yaml:"target_urls"`

	// TargetURLsFile is an optional path to a file with one target URL per
	// line. It is re-read on every scrape.
	TargetURLsFile string `yaml:"target_urls_file"`

	// ProviderDomain is the domain hosting the {network}-onet-api services.
	ProviderDomain string `yaml:"provider_domain"`

	// RequestTimeout bounds each upstream request (grade and profile separately).
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// UserAgent is sent on every upstream request.
	UserAgent string `yaml:"user_agent"`

	// Concurrency is the maximum number of targets fetched in parallel
	// during one scrape. 1 fetches sequentially.
	Concurrency int `yaml:"concurrency"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of: json | text.
	LogFormat string `yaml:"log_format"`
}

// TargetList is a target blob that may be written in YAML either as a single
// string or as a list of strings.
type TargetList string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (t *TargetList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = TargetList(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("target_urls: %w", err)
		}
		*t = TargetList(strings.Join(items, "\n"))
		return nil
	default:
		return fmt.Errorf("target_urls: line %d: expected a string or a list of strings", node.Line)
	}
}

// Level returns the parsed slog level. Invalid values are rejected by
// Load, so the info fallback only applies to hand-built configs.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// levelAliases maps level names slog does not know to their slog equivalent.
var levelAliases = map[string]string{
	"WARNING":  "WARN",
	"CRITICAL": "ERROR",
	"FATAL":    "ERROR",
}

// parseLevel parses s as a slog level, case-insensitively, accepting the
// names in levelAliases.
func parseLevel(s string) (slog.Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := levelAliases[name]; ok {
		name = alias
	}
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(name))
	return lvl, err
}

// Load reads and parses the YAML config file at path. An empty path skips
// the file and yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		ListenAddress:  DefaultListenAddress,
		ProviderDomain: DefaultProviderDomain,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		Concurrency:    DefaultConcurrency,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// applyEnv overlays the environment variables that are set, even when empty.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvTargetURLs); ok {
		cfg.TargetURLs = TargetList(v)
	}
	if v, ok := os.LookupEnv(EnvTargetURLsFile); ok {
		cfg.TargetURLsFile = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		if _, err := parseLevel(v); err != nil {
			slog.Warn("config: unknown LOG_LEVEL, using info", "value", v)
			v = DefaultLogLevel
		}
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvListenAddress); ok && v != "" {
		cfg.ListenAddress = v
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if cfg.ProviderDomain == "" {
		return fmt.Errorf("provider_domain is required")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	return nil
}
