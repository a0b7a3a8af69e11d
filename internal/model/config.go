package model

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// Config holds the full pipeline configuration. Components receive the
// slices of it they need explicitly; nothing reads ambient state.
type Config struct {
	Match   MatchConfig  `yaml:"match" json:"match"`
	Dates   DateConfig   `yaml:"dates" json:"dates"`
	Cache   CacheConfig  `yaml:"cache" json:"cache"`
	Workers WorkerConfig `yaml:"workers" json:"workers"`
	Output  OutputConfig `yaml:"output" json:"output"`
	LLM     LLMConfig    `yaml:"llm" json:"llm"`
}

// MatchConfig controls record linkage.
type MatchConfig struct {
	// Threshold is the minimum similarity score (0,100] required to merge a
	// record into an existing client.
	Threshold float64 `yaml:"threshold" json:"threshold"`

	// MinVisits is the loyalty cutoff: clients with fewer visits are
	// excluded from the exported roster.
	MinVisits int `yaml:"min_visits" json:"min_visits"`
}

// DateConfig controls date normalization policy.
type DateConfig struct {
	// ReferenceYear is assumed for date tokens that carry no year.
	// Zero means the current year at processing time.
	ReferenceYear int `yaml:"reference_year" json:"reference_year"`

	// RollbackTolerance: a yearless date resolving further than this into
	// the future is assumed to belong to the previous year. Scanned agendas
	// often span a year boundary; this is a heuristic, not a guarantee.
	RollbackTolerance time.Duration `yaml:"rollback_tolerance" json:"rollback_tolerance"`

	// MinYear/MaxYear bound plausible visit years; dates outside are
	// treated as parse noise and dropped.
	MinYear int `yaml:"min_year" json:"min_year"`
	MaxYear int `yaml:"max_year" json:"max_year"`
}

// CacheConfig controls the extraction cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// WorkerConfig controls document parsing concurrency.
type WorkerConfig struct {
	ParseWorkers int `yaml:"parse_workers" json:"parse_workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LLMConfig configures the optional roster summarizer.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cacheDir := ".radiance-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = home + "/.radiance/cache"
	}

	return &Config{
		Match: MatchConfig{
			Threshold: 85.0,
			MinVisits: 2,
		},
		Dates: DateConfig{
			ReferenceYear:     0,
			RollbackTolerance: 7 * 24 * time.Hour,
			MinYear:           2000,
			MaxYear:           2030,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     cacheDir,
			TTL:     30 * 24 * time.Hour,
		},
		Workers: WorkerConfig{
			ParseWorkers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Verbose: false,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}

// Validate checks configuration before any processing begins. Invalid
// configuration is fatal; nothing runs against a bad threshold.
func (c *Config) Validate() error {
	if c.Match.Threshold <= 0 || c.Match.Threshold > 100 {
		return fmt.Errorf("similarity threshold must be in (0,100], got %.1f", c.Match.Threshold)
	}
	if c.Match.MinVisits < 1 {
		return fmt.Errorf("min visits must be >= 1, got %d", c.Match.MinVisits)
	}
	if c.Dates.MinYear > c.Dates.MaxYear {
		return fmt.Errorf("date year window inverted: %d > %d", c.Dates.MinYear, c.Dates.MaxYear)
	}
	if c.Dates.RollbackTolerance < 0 {
		return fmt.Errorf("rollback tolerance must not be negative")
	}
	if c.Workers.ParseWorkers < 1 {
		c.Workers.ParseWorkers = 1
	}
	return nil
}
