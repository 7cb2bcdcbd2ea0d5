package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	AppMode        string
	PublicBaseURL  string
	StorageBackend string
	UploadDir      string
	MaxUploadBytes int64
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	UploadLimit    int
	UploadWindow   int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:        getEnv("APP_PORT", "8000"),
		AppMode:        getEnv("APP_MODE", "debug"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 100<<20),
		S3Region:       getEnv("S3_REGION", ""),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		UploadLimit:    getEnvAsInt("UPLOAD_LIMIT", 30),
		UploadWindow:   getEnvAsInt("UPLOAD_WINDOW_SEC", 60),
	}
}

// UploadWindowDuration returns the rate limit window as a duration
func (c *Config) UploadWindowDuration() time.Duration {
	return time.Duration(c.UploadWindow) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return fallback
}
