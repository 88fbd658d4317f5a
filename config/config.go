package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ModelTimeout  time.Duration

	ListingsSource  string // "api" or "browser"
	ListingsBaseURL string
	ListingsToken   string
	ChromeBin       string

	MaxConcurrency  int
	RateLimitMs     int
	MaxRetries      int
	PageSize        int
	MaxPages        int
	OverFetchFactor int
	RequestTimeout  time.Duration

	CurrencyRates string // comma-separated FROM:TO=RATE pairs, overrides defaults

	CSVOutputPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	StoreResults     bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		ModelTimeout:  getEnvDuration("MODEL_TIMEOUT_MS", 15000),

		ListingsSource:  getEnv("LISTINGS_SOURCE", "api"),
		ListingsBaseURL: getEnv("LISTINGS_BASE_URL", "https://api.apify.com/v2/acts/voyager~booking-scraper"),
		ListingsToken:   getEnv("LISTINGS_TOKEN", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),

		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		PageSize:        getEnvInt("PAGE_SIZE", 25),
		MaxPages:        getEnvInt("MAX_PAGES", 5),
		OverFetchFactor: getEnvInt("OVERFETCH_FACTOR", 3),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT_MS", 120000),

		CurrencyRates: getEnv("CURRENCY_RATES", ""),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/results.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "travel"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "travel123"),
		PostgresDB:       getEnv("POSTGRES_DB", "travel_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		StoreResults:     getEnvBool("STORE_RESULTS", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
