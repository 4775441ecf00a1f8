package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Plan names. Each plan carries a fixed lead quota; growth and pro also
// unlock contact-email enrichment.
const (
	PlanStarter = "starter"
	PlanGrowth  = "growth"
	PlanPro     = "pro"
)

// PlanLimits is the fixed quota table: leads per billing cycle by plan.
var PlanLimits = map[string]int{
	PlanStarter: 2000,
	PlanGrowth:  5000,
	PlanPro:     15000,
}

// ValidPlan reports whether name is a known plan.
func ValidPlan(name string) bool {
	_, ok := PlanLimits[name]
	return ok
}

// PlanAllowsEnrichment reports whether the plan unlocks email enrichment.
func PlanAllowsEnrichment(name string) bool {
	return name == PlanGrowth || name == PlanPro
}

type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	RedisURL        string
	JWTAccessSecret string

	// ProviderToken enables live scraping runs. When empty the runner
	// operates in demo mode with synthesized results.
	ProviderToken       string
	ProviderBaseURL     string
	ProviderActorID     string
	ProviderWaitSeconds int

	// OperatorEmail is the single allow-listed admin identity. The operator
	// may manage accounts but is forbidden from running searches.
	OperatorEmail string

	CORSAllowAll bool
	CORSOrigins  []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		JWTAccessSecret:     getEnv("JWT_ACCESS_SECRET", ""),
		ProviderToken:       getEnv("PROVIDER_TOKEN", ""),
		ProviderBaseURL:     getEnv("PROVIDER_BASE_URL", "https://api.apify.com"),
		ProviderActorID:     getEnv("PROVIDER_ACTOR_ID", "compass~crawler-google-places"),
		ProviderWaitSeconds: mustInt(getEnv("PROVIDER_WAIT_SECONDS", "300")),
		OperatorEmail:       strings.ToLower(strings.TrimSpace(getEnv("OPERATOR_EMAIL", ""))),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.OperatorEmail == "" {
		return nil, fmt.Errorf("OPERATOR_EMAIL is required")
	}
	if cfg.ProviderWaitSeconds < 1 {
		return nil, fmt.Errorf("PROVIDER_WAIT_SECONDS must be positive")
	}

	return cfg, nil
}

// DemoMode reports whether the runner synthesizes results instead of calling
// the external provider.
func (c *Config) DemoMode() bool {
	return c.ProviderToken == ""
}

// GetJWTAccessSecret implements httpkit.JWTConfig.
func (c *Config) GetJWTAccessSecret() string {
	return c.JWTAccessSecret
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
