package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBABaseURL         string
	PriceRunnerBaseURL string
	UserAgent          string

	HTTPTimeoutSeconds int
	PacingDelayMs      int
	RenderWaitMs       int

	ChromeBin string
	Headless  bool

	LogLevel string

	ExportPostgresDSN string
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/115.0 Safari/537.36"

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		DBABaseURL:         strings.TrimRight(getEnv("DBA_BASE_URL", "https://www.dba.dk"), "/"),
		PriceRunnerBaseURL: strings.TrimRight(getEnv("PRICERUNNER_BASE_URL", "https://www.pricerunner.dk"), "/"),
		UserAgent:          getEnv("USER_AGENT", defaultUserAgent),

		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 15),
		PacingDelayMs:      getEnvInt("PACING_DELAY_MS", 1000),
		RenderWaitMs:       getEnvInt("RENDER_WAIT_MS", 2000),

		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("HEADLESS", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ExportPostgresDSN: getEnv("EXPORT_POSTGRES_DSN", ""),
	}
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
