package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/objstore"
	"github.com/inkpress/inkpress/internal/payments"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/es"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/pkg/config/env"
	"github.com/inkpress/inkpress/pkg/stringsutil"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	CorsOrigins []string

	JWTSecret     string
	StorageType   storage.Type
	SchedulesPath string

	DB     pg.PoolConfig
	ES     es.ClientConfig
	Stripe payments.Config
	SMTP   email.Config
	S3     objstore.Config
}

func LoadConfig() (*Config, error) {
	environment := os.Getenv("ENVIRONMENT")
	if err := env.LoadDotEnv(environment, "cmd/api/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := getEnv("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	storageType := storage.Type(getEnv("STORAGE_TYPE", string(storage.PG)))
	if storageType != storage.PG && storageType != storage.ES {
		return nil, fmt.Errorf("unsupported STORAGE_TYPE: %s", storageType)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, errors.New("DB_MAX_CONNS must be a number")
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("SMTP_PORT must be a number")
	}

	return &Config{
		Environment:   environment,
		Port:          port,
		BaseURL:       getEnv("BASE_URL", "http://localhost:"+port),
		CorsOrigins:   parseOrigins(os.Getenv("CORS_ORIGINS")),
		JWTSecret:     jwtSecret,
		StorageType:   storageType,
		SchedulesPath: os.Getenv("SCHEDULES_PATH"),
		DB: pg.PoolConfig{
			ConnStr:  connStr,
			MaxConns: int32(maxConns),
		},
		ES: es.ClientConfig{
			Addresses: stringsutil.RemoveEmptyStrings(strings.Split(getEnv("ES_URL", ""), ",")),
			IndexName: getEnv("ES_INDEX", "articles"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		},
		Stripe: payments.Config{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		SMTP: email.Config{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@inkpress.dev"),
		},
		S3: objstore.Config{
			Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    getEnv("S3_BUCKET", "inkpress"),
			UseSSL:    os.Getenv("S3_USE_SSL") == "true",
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseOrigins(raw string) []string {
	var origins []string
	if raw != "" {
		origins = strings.Split(raw, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = stringsutil.RemoveEmptyStrings(origins)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("port must be a number")
	}
	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}
