package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogDir string
	PlansDir   string
	LogLevel   string
	KeysKind   string
	KeysDSN    string
	KeysSchema string
	BatchSize  int
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first; variables already set in the process win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CatalogDir: getEnv("FINGEN_CATALOG_DIR", ""),
		PlansDir:   getEnv("FINGEN_PLANS_DIR", "./plans"),
		LogLevel:   getEnv("FINGEN_LOG_LEVEL", "info"),
		KeysKind:   getEnv("FINGEN_KEYS_KIND", "memory"),
		KeysDSN:    getEnv("FINGEN_KEYS_DSN", ""),
		KeysSchema: getEnv("FINGEN_KEYS_SCHEMA", "public"),
		BatchSize:  getEnvInt("FINGEN_BATCH_SIZE", 1000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
