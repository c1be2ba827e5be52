package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Summarizer SummarizerConfig
	Translator TranslatorConfig
	AssemblyAI AssemblyAIConfig
	Conference ConferenceConfig
	Jobs       JobsConfig
	Log        LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// SummarizerConfig holds agenda summarization service configuration
type SummarizerConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// TranslatorConfig holds translation service configuration
type TranslatorConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	PollInterval time.Duration
	MaxPolls     int
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey string
}

// ConferenceConfig holds video conferencing configuration
type ConferenceConfig struct {
	Host      string
	APIKey    string
	APISecret string
}

// JobsConfig holds cron schedules for the background jobs
type JobsConfig struct {
	InitiateSpec      string
	FetchResultsSpec  string
	RetrySpec         string
	TranslateSpec     string
	TranscriptionSpec string
	MeetingStatusSpec string
	LockTTL           time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "gram_panchayat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-change-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", "15m"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "gram-panchayat"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Summarizer: SummarizerConfig{
			BaseURL: getEnv("SUMMARIZER_URL", "http://localhost:9100"),
			APIKey:  getEnv("SUMMARIZER_API_KEY", ""),
			Timeout: getEnvAsDuration("SUMMARIZER_TIMEOUT", "30s"),
		},
		Translator: TranslatorConfig{
			BaseURL:      getEnv("TRANSLATOR_URL", "http://localhost:9200"),
			APIKey:       getEnv("TRANSLATOR_API_KEY", ""),
			Timeout:      getEnvAsDuration("TRANSLATOR_TIMEOUT", "30s"),
			PollInterval: getEnvAsDuration("TRANSLATOR_POLL_INTERVAL", "2s"),
			MaxPolls:     getEnvAsInt("TRANSLATOR_MAX_POLLS", 15),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Conference: ConferenceConfig{
			Host:      getEnv("LIVEKIT_HOST", ""),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		Jobs: JobsConfig{
			InitiateSpec:      getEnv("JOBS_INITIATE_SPEC", "*/10 * * * *"),
			FetchResultsSpec:  getEnv("JOBS_FETCH_RESULTS_SPEC", "*/2 * * * *"),
			RetrySpec:         getEnv("JOBS_RETRY_SPEC", "*/15 * * * *"),
			TranslateSpec:     getEnv("JOBS_TRANSLATE_SPEC", "0 * * * *"),
			TranscriptionSpec: getEnv("JOBS_TRANSCRIPTION_SPEC", "*/5 * * * *"),
			MeetingStatusSpec: getEnv("JOBS_MEETING_STATUS_SPEC", "*/5 * * * *"),
			LockTTL:           getEnvAsDuration("JOBS_LOCK_TTL", "10m"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Summarizer.BaseURL == "" {
		return fmt.Errorf("SUMMARIZER_URL is required")
	}
	if c.Translator.BaseURL == "" {
		return fmt.Errorf("TRANSLATOR_URL is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
