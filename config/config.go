// Package config loads application configuration from an optional YAML
// file, a .env file, and environment variable overrides, in that order.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hmda-lens/hmda"
)

// Config holds application configuration
type Config struct {
	Port int `yaml:"port"`

	// Data browser configuration
	DataBrowserURL      string   `yaml:"data_browser_url"`
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds"`
	DefaultStates       []string `yaml:"default_states"`

	// Cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Census reference data configuration
	Census CensusConfig `yaml:"census"`

	// Loan defaults for the affordability model
	Loan LoanConfig `yaml:"loan"`
}

// CacheConfig holds fetch cache settings
type CacheConfig struct {
	Path         string `yaml:"path"`
	TTLHours     int    `yaml:"ttl_hours"`
	SweepMinutes int    `yaml:"sweep_minutes"`
}

// CensusConfig holds census flat-file locations
type CensusConfig struct {
	// Files maps a data year to its FFIEC census flat-file path.
	Files       map[int]string `yaml:"files"`
	DefaultYear int            `yaml:"default_year"`
	MSAFile     string         `yaml:"msa_file"`
}

// LoanConfig holds default mortgage terms for affordability estimates
type LoanConfig struct {
	InterestRate float64 `yaml:"interest_rate"`
	TermYears    int     `yaml:"term_years"`
}

// Load reads configuration from path (or $CONFIG_FILE, or ./config.yaml),
// then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaults()

	if path == "" {
		path = getEnvOrDefault("CONFIG_FILE", "config.yaml")
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		log.Printf("📄 Loaded configuration from %s", path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Census.DefaultYear == 0 {
		for year := range cfg.Census.Files {
			if year > cfg.Census.DefaultYear {
				cfg.Census.DefaultYear = year
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:                8080,
		DataBrowserURL:      "https://ffiec.cfpb.gov/v2/data-browser-api",
		FetchTimeoutSeconds: 120,
		Cache: CacheConfig{
			Path:         "data/fetch_cache.db",
			TTLHours:     24,
			SweepMinutes: 60,
		},
		Loan: LoanConfig{
			InterestRate: hmda.DefaultInterestRate,
			TermYears:    hmda.DefaultTermYears,
		},
	}
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.DataBrowserURL = getEnvOrDefault("DATA_BROWSER_URL", c.DataBrowserURL)
	c.FetchTimeoutSeconds = getEnvInt("FETCH_TIMEOUT_SECONDS", c.FetchTimeoutSeconds)
	if states := os.Getenv("DEFAULT_STATES"); states != "" {
		c.DefaultStates = splitList(states)
	}

	c.Cache.Path = getEnvOrDefault("CACHE_PATH", c.Cache.Path)
	c.Cache.TTLHours = getEnvInt("CACHE_TTL_HOURS", c.Cache.TTLHours)
	c.Cache.SweepMinutes = getEnvInt("CACHE_SWEEP_MINUTES", c.Cache.SweepMinutes)

	c.Census.DefaultYear = getEnvInt("CENSUS_DEFAULT_YEAR", c.Census.DefaultYear)
	c.Census.MSAFile = getEnvOrDefault("CENSUS_MSA_FILE", c.Census.MSAFile)
	if file := os.Getenv("CENSUS_FILE"); file != "" && c.Census.DefaultYear > 0 {
		if c.Census.Files == nil {
			c.Census.Files = make(map[int]string)
		}
		c.Census.Files[c.Census.DefaultYear] = file
	}

	c.Loan.InterestRate = getEnvFloat("LOAN_INTEREST_RATE", c.Loan.InterestRate)
	c.Loan.TermYears = getEnvInt("LOAN_TERM_YEARS", c.Loan.TermYears)
}

// Validate reports configuration values the application cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %d", c.FetchTimeoutSeconds)
	}
	if c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %d", c.Cache.TTLHours)
	}
	if c.Cache.SweepMinutes <= 0 {
		return fmt.Errorf("cache sweep interval must be positive, got %d", c.Cache.SweepMinutes)
	}
	if len(c.Census.Files) > 0 && c.Census.DefaultYear == 0 {
		return fmt.Errorf("census default year is required when census files are configured")
	}
	if c.Loan.InterestRate < 0 {
		return fmt.Errorf("loan interest rate must not be negative, got %v", c.Loan.InterestRate)
	}
	if c.Loan.TermYears <= 0 {
		return fmt.Errorf("loan term must be positive, got %d", c.Loan.TermYears)
	}
	return nil
}

// FetchTimeout returns the upstream request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached payloads stay valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// SweepInterval returns how often the cache sweeper runs.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Cache.SweepMinutes) * time.Minute
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
