package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                   string
	Addr                     string
	DbDsn                    string
	JwtSecret                string
	JwtHours                 int
	AllowMultipleOpenPunchin bool
	TimeZoneName             string
	Location                 *time.Location
	UploadCloudName          string
	UploadAPIKey             string
	UploadAPISecret          string
	AllowedOriginsRaw        string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:                   getEnv("APP_ENV", "local"),
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DbDsn:                    os.Getenv("DB_DSN"),
		JwtSecret:                os.Getenv("JWT_SECRET"),
		JwtHours:                 getEnvInt("JWT_HOURS", 24),
		AllowMultipleOpenPunchin: getEnvBool("ALLOW_MULTIPLE_OPEN_PUNCHINS", true),
		TimeZoneName:             getEnv("TIME_ZONE", "Asia/Kolkata"),
		UploadCloudName:          os.Getenv("UPLOAD_CLOUD_NAME"),
		UploadAPIKey:             os.Getenv("UPLOAD_API_KEY"),
		UploadAPISecret:          os.Getenv("UPLOAD_API_SECRET"),
		AllowedOriginsRaw:        getEnv("ALLOWED_ORIGINS", ""),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	loc, err := time.LoadLocation(cfg.TimeZoneName)
	if err != nil {
		return cfg, errors.New("invalid TIME_ZONE: " + cfg.TimeZoneName)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
