package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/perfsum/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderGemini)
			convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.0-flash")
			convey.So(cfg.MissingValuePolicy, convey.ShouldEqual, "lenient")
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 10<<20)
			convey.So(cfg.MaxRows, convey.ShouldEqual, 0)
			convey.So(cfg.SummaryTimeout(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.WriteTimeout(), convey.ShouldEqual, 10*time.Minute)
		})

		convey.Convey("Then it is not valid until the gemini key is set", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, config.ErrMissingAPIKey), convey.ShouldBeTrue)

			cfg.GeminiAPIKey = "k"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid fake provider config", t, func() {
		cfg := config.New()
		cfg.Provider = config.ProviderFake
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown policy", func(c *config.Config) { c.MissingValuePolicy = "loose" }},
			{"unknown provider", func(c *config.Config) { c.Provider = "claude" }},
			{"openai without key", func(c *config.Config) { c.Provider = config.ProviderOpenAI }},
			{"zero upload limit", func(c *config.Config) { c.MaxUploadBytes = 0 }},
			{"negative max rows", func(c *config.Config) { c.MaxRows = -1 }},
			{"negative timeout", func(c *config.Config) { c.SummaryTimeoutMS = -5 }},
			{"gemini without model", func(c *config.Config) {
				c.Provider, c.GeminiAPIKey, c.GeminiModel = config.ProviderGemini, "k", ""
			}},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
