// Package config defines bot configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// SourceBaseURL is the results API root.
	SourceBaseURL string `koanf:"source_base_url"`

	// HistoryBaseURL is the yearly history API root.
	HistoryBaseURL string `koanf:"history_base_url"`

	// SourceTimeoutMS bounds one results API request in milliseconds.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`

	// TelegramToken authenticates the chat bot. Empty disables the
	// chat surface.
	TelegramToken string `koanf:"telegram_token"`

	// QueueSize bounds the in-memory notification queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of delivery workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the seen-draw cache.
	DedupeSize int `koanf:"dedupe_size"`

	// TopN sets how many categories a prediction keeps.
	TopN int `koanf:"top_n"`

	// SyncYears sets how many calendar years the initial backfill
	// covers, counted back from the current year inclusive.
	SyncYears int `koanf:"sync_years"`

	// Timezone names the draw schedule zone.
	Timezone string `koanf:"timezone"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		DBPath:          "fcbot.db",
		SourceBaseURL:   "https://macaumarksix.com/api",
		HistoryBaseURL:  "https://history.macaumarksix.com",
		SourceTimeoutMS: 10_000,
		TelegramToken:   "",
		QueueSize:       1024,
		WorkerCount:     4,
		DedupeSize:      4096,
		TopN:            2,
		SyncYears:       3,
		Timezone:        "Asia/Shanghai",
	}
	return c
}
