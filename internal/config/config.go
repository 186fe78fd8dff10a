package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// Webhook / job endpoints
	WebhookSecret string
	JobAPIKey     string

	// Push provider
	PushAPIURL      string
	PushAccessToken string

	// Capture (vision AI) provider
	CaptureAPIURL string
	CaptureAPIKey string

	// Notifier
	NotifierInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spendly"),
		DBPassword: getEnv("DB_PASSWORD", "spendly"),
		DBName:     getEnv("DB_NAME", "spendly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Webhook / job endpoints
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		JobAPIKey:     os.Getenv("JOB_API_KEY"),

		// Push provider
		PushAPIURL:      getEnv("PUSH_API_URL", "https://exp.host/--/api/v2/push/send"),
		PushAccessToken: os.Getenv("PUSH_ACCESS_TOKEN"),

		// Capture provider
		CaptureAPIURL: getEnv("CAPTURE_API_URL", "https://api.openai.com/v1"),
		CaptureAPIKey: os.Getenv("CAPTURE_API_KEY"),
	}

	// Parse notifier tick interval
	intervalStr := getEnv("NOTIFIER_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		log.Printf("Warning: invalid NOTIFIER_INTERVAL value '%s', falling back to 15m\n", intervalStr)
		interval = 15 * time.Minute
	}
	config.NotifierInterval = interval

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
