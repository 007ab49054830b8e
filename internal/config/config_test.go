package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eugenenazirov/carton-fit/internal/packer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CATALOG_FILE", "POOL_SIZE", "MAX_ATTEMPTS", "WORKERS",
		"LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.PoolSize != packer.DefaultPoolSize {
		t.Fatalf("expected default pool size %d, got %d", packer.DefaultPoolSize, cfg.PoolSize)
	}
	if cfg.MaxAttempts != 0 {
		t.Fatalf("expected unlimited attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.Workers < 1 {
		t.Fatalf("expected at least one worker, got %d", cfg.Workers)
	}
	if cfg.CatalogFile != "" {
		t.Fatalf("expected built-in catalog by default, got %q", cfg.CatalogFile)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_FILE", "cartons.xlsx")
	t.Setenv("POOL_SIZE", "250")
	t.Setenv("MAX_ATTEMPTS", "5000")
	t.Setenv("WORKERS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.CatalogFile != "cartons.xlsx" {
		t.Fatalf("unexpected catalog file: %s", cfg.CatalogFile)
	}
	if cfg.PoolSize != 250 || cfg.MaxAttempts != 5000 || cfg.Workers != 3 {
		t.Fatalf("unexpected packer settings: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("POOL_SIZE", "lots")
	t.Setenv("WORKERS", "-2")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PoolSize != packer.DefaultPoolSize {
		t.Fatalf("expected default pool size, got %d", cfg.PoolSize)
	}
	if cfg.Workers < 1 {
		t.Fatalf("expected positive workers, got %d", cfg.Workers)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("POOL_SIZE", "100")

	path := writeYAML(t, `
port: "7100"
pool_size: 200
max_attempts: 0
shutdown_grace_period: 3s
enable_request_logging: false
rate_limit:
  rps: 5
  burst: 10
`)

	port := "7200"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &port})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if cfg.PoolSize != 200 {
		t.Fatalf("expected YAML pool size to beat env, got %d", cfg.PoolSize)
	}
	if cfg.ShutdownGracePeriod != 3*time.Second {
		t.Fatalf("unexpected grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by YAML")
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadYAMLOmittedKeysKeepDefaults(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "port: \"8181\"\n")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to stay enabled")
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS || cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Fatalf("expected default rate limit, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeYAML(t, "write_timeout: soon\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for malformed duration")
		}
	})

	t.Run("zero pool size", func(t *testing.T) {
		path := writeYAML(t, "pool_size: 0\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for zero pool size")
		}
	})

	t.Run("unknown log level", func(t *testing.T) {
		level := "chatty"
		if _, err := Load(&CLIOverrides{LogLevel: &level}); err == nil {
			t.Fatalf("expected error for unknown log level")
		}
	})
}
