package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Sweep    SweepConfig
	Mail     MailConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DatabaseURL string // DATABASE_URL - takes precedence over individual vars
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Host           string
	UploadBasePath string
}

// AuthConfig holds JWT configuration
type AuthConfig struct {
	JWTSecret        string
	TokenExpiryHours int
}

// SweepConfig holds the cron schedules for the background sweeps.
// Expressions use standard 5-field cron syntax.
type SweepConfig struct {
	PrioritySchedule  string // SWEEP_PRIORITY_SCHEDULE: priority escalation sweep (default every 15 min)
	AutoCloseSchedule string // SWEEP_AUTO_CLOSE_SCHEDULE: auto-close sweep (default hourly)
	RunOnStart        bool   // SWEEP_RUN_ON_START: run both sweeps once at startup
}

// MailConfig holds outbound mail configuration. Mail is skipped (but still
// logged) when SendGridAPIKey is empty.
type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// LoadConfig loads configuration from environment variables.
// Supports DATABASE_URL or individual DB_* variables for local dev.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getEnv("DB_HOST", "127.0.0.1"),
			Port:        getEnv("DB_PORT", "3306"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			DBName:      getEnv("DB_NAME", "railgriev"),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("PORT", getEnv("SERVER_PORT", "8080")),
			UploadBasePath: getEnv("UPLOAD_BASE_PATH", "uploads"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
			TokenExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		},
		Sweep: SweepConfig{
			PrioritySchedule:  getEnv("SWEEP_PRIORITY_SCHEDULE", "*/15 * * * *"),
			AutoCloseSchedule: getEnv("SWEEP_AUTO_CLOSE_SCHEDULE", "0 * * * *"),
			RunOnStart:        getEnvBool("SWEEP_RUN_ON_START", true),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      getEnv("SENDGRID_FROM_EMAIL", "noreply@railgriev.in"),
			FromName:       getEnv("SENDGRID_FROM_NAME", "Rail Grievance Cell"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
