package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/perfsum/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should refuse to start without a gemini key", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrMissingAPIKey), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the vendor key variable is set", func() {
			_ = os.Setenv("GEMINI_API_KEY", "from-vendor")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is picked up with every other default intact", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "from-vendor")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.MissingValuePolicy, convey.ShouldEqual, "lenient")
			})

			convey.Convey("And the prefixed variable wins over it", func() {
				_ = os.Setenv("PERFSUM_GEMINI_API_KEY", "from-prefix")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "from-prefix")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PERFSUM_PROVIDER", "FAKE")
			_ = os.Setenv("PERFSUM_ADDR", ":8080")
			_ = os.Setenv("PERFSUM_MISSING_VALUE_POLICY", "Strict")
			_ = os.Setenv("PERFSUM_MAX_ROWS", "500")
			_ = os.Setenv("PERFSUM_MAX_UPLOAD_BYTES", "2048")
			_ = os.Setenv("PERFSUM_SUMMARY_TIMEOUT_MS", "1500")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderFake)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MissingValuePolicy, convey.ShouldEqual, "strict")
				convey.So(cfg.MaxRows, convey.ShouldEqual, 500)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 2048)
				convey.So(cfg.SummaryTimeoutMS, convey.ShouldEqual, 1500)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# file layer
addr: ":9090"
provider: openai
openai_api_key: sk-file
openai_base_url: http://localhost:11434/v1
max_rows: 10
`
			tmpFile := createTempFile("perfsum-config-*.yaml", yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PERFSUM_CONFIG", tmpFile)
			_ = os.Setenv("PERFSUM_MAX_ROWS", "20")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderOpenAI)
				convey.So(cfg.OpenAIAPIKey, convey.ShouldEqual, "sk-file")
				convey.So(cfg.OpenAIBaseURL, convey.ShouldEqual, "http://localhost:11434/v1")
				convey.So(cfg.OpenAIModel, convey.ShouldEqual, "gpt-4o-mini")
				convey.So(cfg.MaxRows, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When a .env file is present", func() {
			dotenv := createTempFile("perfsum-*.env", "PERFSUM_PROVIDER=fake\nPERFSUM_LOG_FORMAT=json\n")
			defer func() { _ = os.Remove(dotenv) }()
			_ = os.Setenv("PERFSUM_DOTENV", dotenv)
			_ = os.Setenv("PERFSUM_LOG_FORMAT", "text")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderFake)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile("perfsum-config-*.yaml", `invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("PERFSUM_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PERFSUM_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PERFSUM_PROVIDER", "fake")
			_ = os.Setenv("PERFSUM_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PERFSUM_PROVIDER", "fake")
			_ = os.Setenv("PERFSUM_MAX_ROWS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PERFSUM_CONFIG",
		"PERFSUM_DOTENV",
		"PERFSUM_ADDR",
		"PERFSUM_PROVIDER",
		"PERFSUM_LOG_FORMAT",
		"PERFSUM_GEMINI_API_KEY",
		"PERFSUM_MISSING_VALUE_POLICY",
		"PERFSUM_MAX_ROWS",
		"PERFSUM_MAX_UPLOAD_BYTES",
		"PERFSUM_SUMMARY_TIMEOUT_MS",
		"GEMINI_API_KEY",
		"OPENAI_API_KEY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
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
