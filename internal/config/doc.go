// Package config loads and watches the exporter configuration.
//
// Top-level type Config maps 1:1 to config.example.yaml:
//   - listen_address: HTTP bind address for /metrics, /health and /exporter/metrics
//   - target_urls: comma/newline separated URLs, as a YAML string or list
//   - target_urls_file: optional path to a one-URL-per-line file
//   - provider_domain: domain the validator APIs are served under
//   - request_timeout, user_agent, concurrency: upstream fetch settings
//   - log_level, log_format: slog settings
//
// Load(path) applies defaults (:9101, 10s timeout, concurrency 4, info/json),
// parses the YAML file when path is non-empty, applies the TARGET_URLS,
// TARGET_URLS_FILE, LOG_LEVEL and LISTEN_ADDRESS environment overrides, then
// validates.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It watches the parent directory so
// the rename→create pattern used by atomic-save editors (vim, VS Code) keeps
// being observed.
package config
