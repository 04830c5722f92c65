package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	SessionTTL   time.Duration
	CookieSecure bool

	BlobProvider  string // "local" or "s3"
	BlobLocalDir  string
	BlobPublicURL string
	S3Endpoint    string
	S3Region      string
	S3KeyID       string
	S3AppKey      string
	S3Bucket      string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:    getEnv("API_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "profiledash_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		SessionTTL:   time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 168)) * time.Hour, // 7 days
		CookieSecure: getEnv("APP_ENV", "development") == "production",

		BlobProvider:  getEnv("BLOB_PROVIDER", "local"),
		BlobLocalDir:  getEnv("BLOB_LOCAL_DIR", "./uploads"),
		BlobPublicURL: getEnv("BLOB_PUBLIC_URL", "http://localhost:8080/uploads"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3KeyID:       getEnv("S3_KEY_ID", ""),
		S3AppKey:      getEnv("S3_APP_KEY", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
	}

	// A full DATABASE_URL wins over the discrete parts.
	if url := getEnv("DATABASE_URL", ""); url != "" {
		AppConfig.DBConnStr = url
	} else {
		AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
			" port=" + AppConfig.DBPort +
			" user=" + AppConfig.DBUser +
			" password=" + AppConfig.DBPassword +
			" dbname=" + AppConfig.DBName +
			" sslmode=" + AppConfig.DBSslMode
	}
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
