package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	Port string

	// Storage backend selection: "local" or "minio".
	StorageType string
	StorageDir  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool

	AllowedImageExtensions []string
	MaxImageSize           int64
	MaxPageSize            int
}

func LoadConfig() Config {
	// .env is optional; real environment variables win when both are set.
	_ = godotenv.Load()

	return Config{
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		Port: getEnv("APP_PORT", "8000"),

		StorageType: strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		StorageDir:  getEnv("STORAGE_DIR", "./storage"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "raglite"),
		MinIOSecure:    getEnvBool("MINIO_SECURE", false),

		AllowedImageExtensions: getEnvList("ALLOWED_IMAGE_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "webp"}),
		MaxImageSize:           getEnvInt64("MAX_IMAGE_SIZE", 5*1024*1024),
		MaxPageSize:            int(getEnvInt64("MAX_PAGE_SIZE", 100)),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return strings.ToLower(value) == "true"
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
