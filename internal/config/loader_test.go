package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/passnet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.NodeSizeMax, convey.ShouldEqual, 25)
				convey.So(cfg.RequireTimestamp, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PASSNET_ADDR", ":8080")
			_ = os.Setenv("PASSNET_FETCH_CONCURRENCY", "3")
			_ = os.Setenv("PASSNET_SEASON", "2024")
			_ = os.Setenv("PASSNET_NODE_SIZE_MAX", "40.5")
			_ = os.Setenv("PASSNET_REQUIRE_TIMESTAMP", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 3)
				convey.So(cfg.Season, convey.ShouldEqual, 2024)
				convey.So(cfg.NodeSizeMax, convey.ShouldEqual, 40.5)
				convey.So(cfg.RequireTimestamp, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
season: 2023
edge_size_cap: 6
upstream_base_url: "http://localhost:1234"
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("PASSNET_CONFIG", tmpFile)
			_ = os.Setenv("PASSNET_ADDR", ":8080") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Season, convey.ShouldEqual, 2023)
				convey.So(cfg.EdgeSizeCap, convey.ShouldEqual, 6)
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "http://localhost:1234")
				convey.So(cfg.EdgeSizeScale, convey.ShouldEqual, 10) // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("PASSNET_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PASSNET_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PASSNET_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passnet.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PASSNET_CONFIG",
		"PASSNET_ADDR",
		"PASSNET_FETCH_CONCURRENCY",
		"PASSNET_SEASON",
		"PASSNET_NODE_SIZE_MAX",
		"PASSNET_REQUIRE_TIMESTAMP",
	} {
		_ = os.Unsetenv(key)
	}
}
