package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://ffiec.cfpb.gov/v2/data-browser-api", cfg.DataBrowserURL)
	assert.Equal(t, 120*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "data/fetch_cache.db", cfg.Cache.Path)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 60*time.Minute, cfg.SweepInterval())
	assert.Equal(t, 0.07, cfg.Loan.InterestRate)
	assert.Equal(t, 30, cfg.Loan.TermYears)
	assert.Empty(t, cfg.DefaultStates)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
data_browser_url: http://localhost:9999/v2/data-browser-api
fetch_timeout_seconds: 30
default_states: [CA, NV]
cache:
  path: /tmp/cache.db
  ttl_hours: 6
  sweep_minutes: 15
census:
  files:
    2023: data/census_2023.csv
    2024: data/census_2024.csv
  msa_file: data/msa.csv
loan:
  interest_rate: 0.065
  term_years: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://localhost:9999/v2/data-browser-api", cfg.DataBrowserURL)
	assert.Equal(t, []string{"CA", "NV"}, cfg.DefaultStates)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.Path)
	assert.Equal(t, 6*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval())
	assert.Equal(t, "data/msa.csv", cfg.Census.MSAFile)
	assert.Equal(t, 0.065, cfg.Loan.InterestRate)
	assert.Equal(t, 15, cfg.Loan.TermYears)

	// Default year falls back to the latest configured census year.
	assert.Equal(t, 2024, cfg.Census.DefaultYear)
	assert.Equal(t, "data/census_2024.csv", cfg.Census.Files[2024])
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeConfigFile(t, "port: 9090\ncache:\n  ttl_hours: 6\n")

	t.Setenv("PORT", "7070")
	t.Setenv("CACHE_TTL_HOURS", "48")
	t.Setenv("DEFAULT_STATES", "ca, nv,  az")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.CacheTTL())
	assert.Equal(t, []string{"ca", "nv", "az"}, cfg.DefaultStates)
}

func TestCensusFileFromEnv(t *testing.T) {
	t.Setenv("CENSUS_DEFAULT_YEAR", "2023")
	t.Setenv("CENSUS_FILE", "data/census_2023.csv")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2023, cfg.Census.DefaultYear)
	assert.Equal(t, "data/census_2023.csv", cfg.Census.Files[2023])
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfigFile(t, "port: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeoutSeconds = 0 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTLHours = 0 }},
		{"zero sweep interval", func(c *Config) { c.Cache.SweepMinutes = 0 }},
		{"census files without year", func(c *Config) {
			c.Census.Files = map[int]string{0: "data/census.csv"}
		}},
		{"negative interest rate", func(c *Config) { c.Loan.InterestRate = -0.01 }},
		{"zero loan term", func(c *Config) { c.Loan.TermYears = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, defaults().Validate())
}
