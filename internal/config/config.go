package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey     string
	PerplexityAPIKey string
	DatabaseURL      string
	HTTPPort         string
	LogLevel         string
	JWTSecret        string

	WearableBaseURL      string
	WearableClientID     string
	WearableClientSecret string
	MockWearable         bool
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		PerplexityAPIKey: getEnv("PERPLEXITY_API_KEY", ""),
		DatabaseURL:      getEnv("DATABASE_URL", "axion_health.db"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:        getEnv("JWT_SECRET", ""),

		WearableBaseURL:      getEnv("WEARABLE_BASE_URL", "https://sandbox-api.sahha.ai/api/v1"),
		WearableClientID:     getEnv("WEARABLE_CLIENT_ID", ""),
		WearableClientSecret: getEnv("WEARABLE_CLIENT_SECRET", ""),
		MockWearable:         getEnvAsBool("MOCK_WEARABLE", true),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	if AppConfig.PerplexityAPIKey == "" {
		log.Println("Warning: PERPLEXITY_API_KEY not set, external research will report errors in-band")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
