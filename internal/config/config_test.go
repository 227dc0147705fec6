package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	clearEnv(t)
	yaml := `
listen_address: ":9200"
target_urls: "https://kusama-onet-api.turboflakes.io/api/v1/validators/A/grade,https://polkadot-onet-api.turboflakes.io/api/v1/validators/B/grade"
target_urls_file: /etc/exporter/targets.txt
provider_domain: example.io
request_timeout: 3s
user_agent: test-agent/0.1
concurrency: 2
log_level: debug
log_format: text
`
	cfg := loadFromString(t, yaml)

	if cfg.ListenAddress != ":9200" {
		t.Errorf("listen_address: got %q", cfg.ListenAddress)
	}
	if cfg.TargetURLsFile != "/etc/exporter/targets.txt" {
		t.Errorf("target_urls_file: got %q", cfg.TargetURLsFile)
	}
	if cfg.ProviderDomain != "example.io" {
		t.Errorf("provider_domain: got %q", cfg.ProviderDomain)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("request_timeout: got %v", cfg.RequestTimeout)
	}
	if cfg.UserAgent != "test-agent/0.1" {
		t.Errorf("user_agent: got %q", cfg.UserAgent)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("concurrency: got %d", cfg.Concurrency)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level(): got %v, want debug", cfg.Level())
	}
	want := "https://kusama-onet-api.turboflakes.io/api/v1/validators/A/grade,https://polkadot-onet-api.turboflakes.io/api/v1/validators/B/grade"
	if string(cfg.TargetURLs) != want {
		t.Errorf("target_urls: got %q", cfg.TargetURLs)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := loadFromString(t, "{}\n")

	if cfg.ListenAddress != DefaultListenAddress {
		t.Errorf("default listen_address: got %q, want %q", cfg.ListenAddress, DefaultListenAddress)
	}
	if cfg.ProviderDomain != DefaultProviderDomain {
		t.Errorf("default provider_domain: got %q", cfg.ProviderDomain)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("default request_timeout: got %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("default user_agent: got %q", cfg.UserAgent)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("default concurrency: got %d", cfg.Concurrency)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("default level: got %v", cfg.Level())
	}
	if cfg.TargetURLs != "" || cfg.TargetURLsFile != "" {
		t.Errorf("targets should be empty by default, got %q / %q", cfg.TargetURLs, cfg.TargetURLsFile)
	}
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}
	if cfg.ListenAddress != DefaultListenAddress {
		t.Errorf("listen_address: got %q", cfg.ListenAddress)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoad_TargetList(t *testing.T) {
	clearEnv(t)
	yaml := `
target_urls:
  - https://a.example/api/v1/validators/A/grade
  - "https://b.example/api/v1/validators/B/grade"
`
	cfg := loadFromString(t, yaml)
	want := "https://a.example/api/v1/validators/A/grade\nhttps://b.example/api/v1/validators/B/grade"
	if string(cfg.TargetURLs) != want {
		t.Errorf("target_urls list: got %q, want %q", cfg.TargetURLs, want)
	}
}

func TestLoad_TargetListBadShape(t *testing.T) {
	clearEnv(t)
	_, err := loadStringErr(t, "target_urls:\n  a: b\n")
	if err == nil {
		t.Fatal("expected error for map-shaped target_urls, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTargetURLs, "https://env.example/api/v1/validators/E/grade")
	t.Setenv(EnvTargetURLsFile, "/tmp/targets.txt")
	t.Setenv(EnvLogLevel, "WARNING")
	t.Setenv(EnvListenAddress, ":9999")

	cfg := loadFromString(t, `
target_urls: https://file.example/api/v1/validators/F/grade
target_urls_file: /etc/targets.txt
log_level: debug
`)
	if string(cfg.TargetURLs) != "https://env.example/api/v1/validators/E/grade" {
		t.Errorf("TARGET_URLS override: got %q", cfg.TargetURLs)
	}
	if cfg.TargetURLsFile != "/tmp/targets.txt" {
		t.Errorf("TARGET_URLS_FILE override: got %q", cfg.TargetURLsFile)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("LOG_LEVEL override: got %v", cfg.Level())
	}
	if cfg.ListenAddress != ":9999" {
		t.Errorf("LISTEN_ADDRESS override: got %q", cfg.ListenAddress)
	}
}

func TestLoad_EnvLogLevelNames(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"WARNING", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"CRITICAL", slog.LevelError},
		{"FATAL", slog.LevelError},
		{"Debug", slog.LevelDebug},
		{"NOTSET", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvLogLevel, tc.env)
			cfg := loadFromString(t, "log_level: debug\n")
			if cfg.Level() != tc.want {
				t.Errorf("LOG_LEVEL=%s: got %v, want %v", tc.env, cfg.Level(), tc.want)
			}
		})
	}
}

func TestLoad_FileLogLevelAlias(t *testing.T) {
	clearEnv(t)
	cfg := loadFromString(t, "log_level: WARNING\n")
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("log_level WARNING: got %v, want warn", cfg.Level())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero timeout", "request_timeout: 0s\n"},
		{"negative concurrency", "concurrency: -1\n"},
		{"unknown level", "log_level: chatty\n"},
		{"unknown format", "log_format: xml\n"},
		{"empty domain", "provider_domain: \"\"\n"},
		{"bad yaml", "listen_address: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := loadStringErr(t, tc.yaml); err == nil {
				t.Fatalf("expected error for %s, got nil", tc.name)
			}
		})
	}
}

func TestWatch_Reload(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("concurrency: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("concurrency: 8\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// A truncating write can surface as more than one event; wait for the
	// reload that sees the final content.
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-changed:
			reloaded = c.Concurrency == 8
		case <-deadline:
			t.Fatal("timed out waiting for reload with concurrency 8")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() returned error: %v", err)
	}
}

// clearEnv unsets every override variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvTargetURLs, EnvTargetURLsFile, EnvLogLevel, EnvListenAddress} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
