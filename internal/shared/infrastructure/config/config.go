package config

import (
	"os"
	"strconv"
	"time"

	"github.com/apuntestech/apuntes/internal/shared/infrastructure/database"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by FileStorageConfig.Driver
const (
	DriverS3    = "s3"
	DriverMinio = "minio"
	DriverLocal = "local"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Redis       database.RedisConfig
	FileStorage FileStorageConfig
	Notes       NotesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
	LogLevel       string
	// Per-client limit on upload and delete requests; RateLimitRPS <= 0 disables it
	RateLimitRPS   float64
	RateLimitBurst int
}

// FileStorageConfig holds file storage configuration
type FileStorageConfig struct {
	Driver            string
	S3Region          string
	S3Endpoint        string
	S3PublicEndpoint  string
	S3AccessKey       string
	S3SecretKey       string
	S3BucketName      string
	S3UseSSL          bool
	S3PublicRead      bool
	MinioPublicBase   string
	LocalPath         string
	LocalBaseURL      string
	DownloadURLExpiry time.Duration
}

// NotesConfig selects the compiled-in upload rules of the deployment
type NotesConfig struct {
	SubjectSet    string
	MaxFileSizeMB int
	UploadLockTTL time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			RateLimitRPS:   parseFloat(getEnv("RATE_LIMIT_RPS", "2"), 2),
			RateLimitBurst: parseInt(getEnv("RATE_LIMIT_BURST", "10"), 10),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		FileStorage: FileStorageConfig{
			Driver:            getEnv("STORAGE_DRIVER", DriverLocal),
			S3Region:          getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:        getEnv("S3_ENDPOINT", ""),
			S3PublicEndpoint:  getEnv("S3_PUBLIC_ENDPOINT", getEnv("S3_ENDPOINT", "")),
			S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
			S3BucketName:      getEnv("S3_BUCKET", ""),
			S3UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
			S3PublicRead:      getEnv("S3_PUBLIC_READ", "true") == "true",
			MinioPublicBase:   getEnv("MINIO_PUBLIC_BASE", ""),
			LocalPath:         getEnv("LOCAL_STORAGE_PATH", "./uploads"),
			LocalBaseURL:      getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/uploads"),
			DownloadURLExpiry: parseDuration(getEnv("DOWNLOAD_URL_EXPIRY", "1h"), time.Hour),
		},
		Notes: NotesConfig{
			SubjectSet:    getEnv("SUBJECT_SET", "school"),
			MaxFileSizeMB: parseInt(getEnv("MAX_FILE_SIZE_MB", "0"), 0),
			UploadLockTTL: parseDuration(getEnv("UPLOAD_LOCK_TTL", "30s"), 30*time.Second),
		},
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

func parseFloat(value string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return defaultValue
}
