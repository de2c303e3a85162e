// Package config reads run settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
	"github.com/Billy-Davies-2/hoops-swap/internal/roster"
	"github.com/Billy-Davies-2/hoops-swap/internal/swap"
)

// Config holds every tunable of a run
type Config struct {
	Environment string
	LogLevel    string
	LogFormat   string

	OAuthFile string
	LeagueKey string

	RosterCap            int
	NonTradable          []string
	ImprovementThreshold float64
	CandidateDelay       time.Duration
	CandidatePacing      string
	StatPeriod           string
	Positions            []string

	CacheDriver string
	NATSURL     string
	NATSSubject string
	DryRun      bool
}

// Development reports whether the run uses the seeded mock platform
func (c *Config) Development() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Load reads the environment, applying defaults for unset variables
func Load() (*Config, error) {
	c := &Config{
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),
		OAuthFile:   getenv("OAUTH_FILE", "oauth2.json"),
		LeagueKey:   os.Getenv("LEAGUE_KEY"),
		StatPeriod:  getenv("STAT_PERIOD", platform.StatPeriodLastMonth),
		CacheDriver: getenv("CACHE_DRIVER", "memory"),
		NATSURL:     os.Getenv("NATS_URL"),
		NATSSubject: getenv("NATS_SUBJECT", "swap.events"),
		NonTradable: splitList(os.Getenv("NON_TRADABLE")),
		Positions:   splitList(getenv("POSITIONS", strings.Join(swap.DefaultPositions, ","))),

		CandidatePacing: getenv("CANDIDATE_PACING", swap.PacingFixed),
	}

	var err error
	if c.RosterCap, err = intEnv("ROSTER_CAP", roster.DefaultRosterCap); err != nil {
		return nil, err
	}
	if c.ImprovementThreshold, err = floatEnv("IMPROVEMENT_THRESHOLD", swap.DefaultThreshold); err != nil {
		return nil, err
	}
	if c.CandidateDelay, err = durationEnv("CANDIDATE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if c.DryRun, err = boolEnv("DRY_RUN", false); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate rejects settings the run cannot honor
func (c *Config) Validate() error {
	if c.RosterCap <= 0 {
		return fmt.Errorf("ROSTER_CAP must be positive, got %d", c.RosterCap)
	}
	if c.ImprovementThreshold < 0 {
		return fmt.Errorf("IMPROVEMENT_THRESHOLD must not be negative, got %v", c.ImprovementThreshold)
	}
	if c.CandidateDelay < 0 {
		return fmt.Errorf("CANDIDATE_DELAY must not be negative, got %v", c.CandidateDelay)
	}
	switch c.CandidatePacing {
	case "", swap.PacingFixed, swap.PacingRate:
	default:
		return fmt.Errorf("unknown CANDIDATE_PACING: %s (valid: %s, %s)", c.CandidatePacing, swap.PacingFixed, swap.PacingRate)
	}
	if len(c.Positions) == 0 {
		return fmt.Errorf("POSITIONS must name at least one position")
	}
	switch c.CacheDriver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown CACHE_DRIVER: %s (valid: memory, sqlite)", c.CacheDriver)
	}
	if !c.Development() && c.OAuthFile == "" {
		return fmt.Errorf("OAUTH_FILE is required outside development")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
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

func intEnv(key string, fallback int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
