package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"studio-dashboard/internal/pricing"
)

const defaultAPIURL = "http://localhost:8000/api"

type Config struct {
	ServerPort      string
	SessionSecret   string
	SessionMaxAge   int
	CookieSecure    bool
	APIBaseURL      string
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
	DBDSN           string
	LogLevel        string
	Timezone        *time.Location
	DebugTools      bool

	Pricing pricing.Rates
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionMaxAge:   getInt("SESSION_MAX_AGE", 7*24*3600),
		CookieSecure:    getBool("COOKIE_SECURE", false),
		APIBaseURL:      apiURL(),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 0),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBDSN:           os.Getenv("DB_DSN"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DebugTools:      getBool("DEBUG_TOOLS", false),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}
	cfg.Timezone = loc

	rates, err := pricing.LoadRates(os.Getenv("PRICING_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.Pricing = rates

	return cfg, nil
}

// NEXT_PUBLIC_API_URL is kept so existing deployments keep working.
func apiURL() string {
	for _, key := range []string{"API_URL", "NEXT_PUBLIC_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return defaultAPIURL
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
