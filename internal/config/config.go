package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBase = "http://127.0.0.1:8000/api"

type Config struct {
	ListenAddr  string
	APIBase     string
	ContentFile string
	DBPath      string
	LogLevel    string
	LogFormat   string
	LogFile     string
	RateLimit   int
	SessionTTL  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		APIBase:     getEnv("API_BASE", DefaultAPIBase),
		ContentFile: getEnv("CONTENT_FILE", ""),
		DBPath:      getEnv("DB_PATH", defaultDBPath()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		LogFile:     getEnv("LOG_FILE", ""),
		RateLimit:   getEnvInt("RATE_LIMIT", 500),
		SessionTTL:  getEnvDuration("SESSION_TTL", 12*time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "portfolio.db"
	}
	return filepath.Join(dir, "portfolio", "portfolio.db")
}
