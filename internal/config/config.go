package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/models"
)

type Config struct {
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	KAFKA_ADDRESS string

	JWT_SECRET       string
	JWT_ALGORITHM    string
	ACCESS_TTL_MIN   int
	REFRESH_TTL_DAYS int

	RESEND_API_KEY string
	EMAIL_FROM     string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		JWT_ALGORITHM:    EnvDefault("JWT_ALGORITHM", "HS256"),
		ACCESS_TTL_MIN:   EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		REFRESH_TTL_DAYS: EnvIntDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7),

		RESEND_API_KEY: os.Getenv("RESEND_API_KEY"),
		EMAIL_FROM:     os.Getenv("EMAIL_FROM"),

		LOG_LEVEL: EnvDefault("LOG_LEVEL", "info"),
	}

	// Refusing to start without a signing secret: an empty secret would
	// make every forged token verify.
	if config.JWT_SECRET == "" {
		return nil, errors.New("missing required env JWT_SECRET")
	}
	if config.JWT_ALGORITHM != "HS256" {
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q, only HS256 is supported", config.JWT_ALGORITHM)
	}
	if config.ACCESS_TTL_MIN <= 0 || config.REFRESH_TTL_DAYS <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return config, nil
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Favorite{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
