package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost string
	ServerPort string

	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	AWSRegion          string
	AWSEndpoint        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Optional buffered dispatch path. When set, the scheduler enqueues due
	// notifications here instead of pushing inline.
	SQSDispatchQueueURL string

	KafkaURL           string
	DeliveryKafkaTopic string

	ExpoPushURL string

	CompletionBaseURL string
	CompletionAPIKey  string
	CompletionModel   string
	RegenDailyLimit   int

	PollInterval time.Duration

	AllowedOrigins []string
}

// LoadEnv loads environment variables from .env files
func LoadEnv() {
	envPaths := []string{
		".env",    // Current directory
		"../.env", // One level up
	}

	for _, path := range envPaths {
		err := godotenv.Load(path)
		if err == nil {
			log.Printf("Loaded environment variables from %s", path)
			return
		}
	}

	log.Println("No .env file found, using environment variables")
}

func Load() Config {
	// Load environment variables from .env file first
	LoadEnv()

	log.Println("Loading configuration from environment variables")
	return Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8086"),

		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
		DatabaseUser:     getEnv("DATABASE_USER", "postgres"),
		DatabasePassword: getEnv("DATABASE_PASSWORD", ""),
		DatabaseName:     getEnv("DATABASE_NAME", "reminders"),
		DatabaseSSLMode:  getEnv("DATABASE_SSL_MODE", "disable"),

		AWSRegion:          getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpoint:        getEnv("AWS_LOCAL_ENDPOINT_URL", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		SQSDispatchQueueURL: getEnv("AWS_SQS_DISPATCH_QUEUE_URL", ""),

		KafkaURL:           getEnv("KAFKA_URL", ""),
		DeliveryKafkaTopic: getEnv("KAFKA_DELIVERY_TOPIC", "reminders.notification-deliveries"),

		ExpoPushURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),

		CompletionBaseURL: getEnv("COMPLETION_BASE_URL", "https://api.openai.com/v1"),
		CompletionAPIKey:  getEnv("COMPLETION_API_KEY", ""),
		CompletionModel:   getEnv("COMPLETION_MODEL", "gpt-4o-mini"),
		RegenDailyLimit:   getEnvInt("REGEN_DAILY_LIMIT", 5),

		PollInterval: getEnvDuration("SCHEDULER_POLL_INTERVAL", 5*time.Minute),

		AllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	log.Printf("Env var %s not set, using fallback: %s", key, fallback)
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("Env var %s is not a valid integer (%q), using fallback: %d", key, value, fallback)
			return fallback
		}
		return parsed
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("Env var %s is not a valid duration (%q), using fallback: %s", key, value, fallback)
			return fallback
		}
		return parsed
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
