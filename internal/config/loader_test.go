package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/newsheat/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NEWSHEAT_ADDR", ":8080")
			_ = os.Setenv("NEWSHEAT_QUEUE_SIZE", "500")
			_ = os.Setenv("NEWSHEAT_WORKER_COUNT", "16")
			_ = os.Setenv("NEWSHEAT_FEEDS", "https://a.test/rss, https://b.test/rss,")
			_ = os.Setenv("NEWSHEAT_FEED_FETCH_CONTENT", "true")
			_ = os.Setenv("NEWSHEAT_AI_RATE_PER_SECOND", "0.5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.Feeds, convey.ShouldResemble, []string{"https://a.test/rss", "https://b.test/rss"})
				convey.So(cfg.FeedFetchContent, convey.ShouldBeTrue)
				convey.So(cfg.AIRatePerSecond, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# service
addr: ":9090"
queue_size: 300
db_path: ":memory:"
profile: mild
feeds:
  - https://wire.test/rss
ai_provider: openai
ai_api_key: sk-file
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NEWSHEAT_CONFIG", tmpFile)
			_ = os.Setenv("NEWSHEAT_ADDR", ":8081")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.DBPath, convey.ShouldEqual, ":memory:")
				convey.So(cfg.Profile, convey.ShouldEqual, "mild")
				convey.So(cfg.Feeds, convey.ShouldResemble, []string{"https://wire.test/rss"})
				convey.So(cfg.ModelEnabled(), convey.ShouldBeTrue)
				convey.So(cfg.MaxTopLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NEWSHEAT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NEWSHEAT_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NEWSHEAT_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New(context.Background())

		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }, "addr must not be empty"},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }, "queue_size must be positive"},
			{"negative workers", func(c *config.Config) { c.WorkerCount = -1 }, "worker_count must not be negative"},
			{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
			{"unknown profile", func(c *config.Config) { c.Profile = "spicy" }, "profile must be one of"},
			{"unknown provider", func(c *config.Config) { c.AIProvider = "cohere" }, "unknown ai_provider"},
			{"provider without key", func(c *config.Config) { c.AIProvider = "anthropic" }, "ai_api_key is required"},
			{"zero items per feed", func(c *config.Config) { c.FeedItemsPerFeed = 0 }, "feed_items_per_feed"},
			{"feeds without schedule", func(c *config.Config) {
				c.Feeds = []string{"https://a.test/rss"}
				c.FeedSchedule = ""
			}, "feed_schedule is required"},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}

		convey.Convey("When a profile file is set", func() {
			cfg.Profile = "custom"
			cfg.ProfileFile = "/etc/newsheat/profile.yaml"

			convey.Convey("Then the profile name is not checked", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"NEWSHEAT_CONFIG",
		"NEWSHEAT_ADDR",
		"NEWSHEAT_QUEUE_SIZE",
		"NEWSHEAT_WORKER_COUNT",
		"NEWSHEAT_FEEDS",
		"NEWSHEAT_FEED_FETCH_CONTENT",
		"NEWSHEAT_AI_RATE_PER_SECOND",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "newsheat-config-*.yaml")
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
