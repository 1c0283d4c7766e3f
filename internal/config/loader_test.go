package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/isotopelab/isotope/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"ISOTOPE_CONFIG",
		"ISOTOPE_LOG_LEVEL",
		"ISOTOPE_ADDR",
		"ISOTOPE_STORAGE_DRIVER",
		"ISOTOPE_STORAGE_PATH",
		"ISOTOPE_CATALOG_PATH",
		"ISOTOPE_STARTING_ELECTRONS",
		"ISOTOPE_ELEMENT_MULTIPLIER",
		"ISOTOPE_REDUCED_MOTION",
		"ISOTOPE_MAX_HISTORY_LIMIT",
		"ISOTOPE_COMPLETION_CACHE_SIZE",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()

		Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load successfully with defaults", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldNotBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.Addr, ShouldEqual, ":8090")
				So(cfg.StorageDriver, ShouldEqual, "sqlite")
				So(cfg.StoragePath, ShouldEqual, "~/.isotope/profile.db")
				So(cfg.StartingElectrons, ShouldEqual, 0)
				So(cfg.ElementMultiplier, ShouldEqual, 0.1)
				So(cfg.ReducedMotion, ShouldBeFalse)
				So(cfg.MaxHistoryLimit, ShouldEqual, 100)
				So(cfg.CompletionCacheSize, ShouldEqual, 50_000)
			})
		})

		Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ISOTOPE_ADDR", ":9000")
			_ = os.Setenv("ISOTOPE_STORAGE_DRIVER", "memory")
			_ = os.Setenv("ISOTOPE_STARTING_ELECTRONS", "50")
			_ = os.Setenv("ISOTOPE_ELEMENT_MULTIPLIER", "0.2")
			_ = os.Setenv("ISOTOPE_REDUCED_MOTION", "true")
			_ = os.Setenv("ISOTOPE_MAX_HISTORY_LIMIT", "25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should override defaults with env vars", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9000")
				So(cfg.StorageDriver, ShouldEqual, "memory")
				So(cfg.StartingElectrons, ShouldEqual, 50)
				So(cfg.ElementMultiplier, ShouldEqual, 0.2)
				So(cfg.ReducedMotion, ShouldBeTrue)
				So(cfg.MaxHistoryLimit, ShouldEqual, 25)
			})
		})

		Convey("When loading config with a YAML file", func() {
			yamlContent := `
log_level: "debug"
addr: ":7070"
storage_driver: "memory"
starting_electrons: 5
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("ISOTOPE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load from the YAML file", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.StorageDriver, ShouldEqual, "memory")
				So(cfg.StartingElectrons, ShouldEqual, 5)

				Convey("And untouched keys keep their defaults", func() {
					So(cfg.MaxHistoryLimit, ShouldEqual, 100)
				})
			})
		})

		Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile(t, `addr: ":7070"`)
			_ = os.Setenv("ISOTOPE_CONFIG", tmpFile)
			_ = os.Setenv("ISOTOPE_ADDR", ":9000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then environment variables win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9000")
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("ISOTOPE_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails with a load error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When validation rejects the result", func() {
			defer clearConfigEnvVars()

			Convey("Then an empty addr fails", func() {
				clearConfigEnvVars()
				_ = os.Setenv("ISOTOPE_ADDR", "")
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})

			Convey("Then an unknown storage driver fails", func() {
				clearConfigEnvVars()
				_ = os.Setenv("ISOTOPE_STORAGE_DRIVER", "redis")
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})

			Convey("Then a negative element multiplier fails", func() {
				clearConfigEnvVars()
				_ = os.Setenv("ISOTOPE_ELEMENT_MULTIPLIER", "-0.5")
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestConfigNew(t *testing.T) {
	Convey("Given the default constructor", t, func() {
		cfg := config.New(context.Background())

		Convey("Then it fills every field", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":8090")
			So(cfg.StorageDriver, ShouldEqual, "sqlite")
			So(cfg.CompletionCacheSize, ShouldEqual, 50_000)
		})
	})
}
