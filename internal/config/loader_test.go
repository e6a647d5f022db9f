package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/liemgreggy-glitch/fcbot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DBPath, convey.ShouldEqual, "fcbot.db")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.TopN, convey.ShouldEqual, 2)
				convey.So(cfg.Timezone, convey.ShouldEqual, "Asia/Shanghai")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FCBOT_ADDR", ":8080")
			_ = os.Setenv("FCBOT_DB_PATH", "/tmp/bot.db")
			_ = os.Setenv("FCBOT_QUEUE_SIZE", "64")
			_ = os.Setenv("FCBOT_WORKER_COUNT", "8")
			_ = os.Setenv("FCBOT_TOP_N", "3")
			_ = os.Setenv("FCBOT_TELEGRAM_TOKEN", "123:abc")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/bot.db")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.TelegramToken, convey.ShouldEqual, "123:abc")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
db_path: "/tmp/file.db"
queue_size: 2048
worker_count: 6
sync_years: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FCBOT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/file.db")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)
				convey.So(cfg.SyncYears, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2048
worker_count: 6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FCBOT_CONFIG", tmpFile)
			_ = os.Setenv("FCBOT_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("FCBOT_WORKER_COUNT", "12") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048) // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 12) // Overridden by env
				convey.So(cfg.Timezone, convey.ShouldEqual, "Asia/Shanghai")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FCBOT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FCBOT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 16
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FCBOT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")   // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16) // From file
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024) // From defaults
				convey.So(cfg.DBPath, convey.ShouldEqual, "fcbot.db")
				convey.So(cfg.TopN, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FCBOT_QUEUE_SIZE", "invalid")
			_ = os.Setenv("FCBOT_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name  string
			key   string
			value string
			want  string
		}{
			{"empty addr", "FCBOT_ADDR", "", "addr must not be empty"},
			{"empty db path", "FCBOT_DB_PATH", "", "db_path must not be empty"},
			{"zero queue size", "FCBOT_QUEUE_SIZE", "0", "queue_size must be positive"},
			{"negative worker count", "FCBOT_WORKER_COUNT", "-10", "worker_count must be positive"},
			{"zero top n", "FCBOT_TOP_N", "0", "top_n must be between"},
			{"oversized top n", "FCBOT_TOP_N", "13", "top_n must be between"},
			{"zero sync years", "FCBOT_SYNC_YEARS", "0", "sync_years must be at least 1"},
			{"zero source timeout", "FCBOT_SOURCE_TIMEOUT_MS", "0", "source_timeout_ms must be positive"},
			{"empty timezone", "FCBOT_TIMEZONE", "", "timezone must not be empty"},
		}

		for _, tc := range cases {
			convey.Convey("When loading with "+tc.name, func() {
				clearConfigEnvVars()
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FCBOT_CONFIG",
		"FCBOT_ADDR",
		"FCBOT_DB_PATH",
		"FCBOT_SOURCE_BASE_URL",
		"FCBOT_HISTORY_BASE_URL",
		"FCBOT_SOURCE_TIMEOUT_MS",
		"FCBOT_TELEGRAM_TOKEN",
		"FCBOT_QUEUE_SIZE",
		"FCBOT_WORKER_COUNT",
		"FCBOT_DEDUPE_SIZE",
		"FCBOT_TOP_N",
		"FCBOT_SYNC_YEARS",
		"FCBOT_TIMEZONE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fcbot-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
