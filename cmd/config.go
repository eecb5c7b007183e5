package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string
	LogLevel slog.Level

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	KafkaBrokers           string
	KafkaNotificationTopic string

	RedisAddr      string
	IdempotencyTTL time.Duration

	RelayBatchSize   int
	RelayMaxAttempts int
	DocumentURLTTL   time.Duration
}

// DSN is the gorm postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	required := []struct{ key, value string }{
		{"HTTP_PORT", c.HTTPPort},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
		{"MINIO_ENDPOINT", c.MinioEndpoint},
		{"MINIO_ACCESS_KEY", c.MinioAccessKey},
		{"MINIO_SECRET_KEY", c.MinioSecretKey},
		{"MINIO_BUCKET", c.MinioBucket},
	}
	var problems []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.RelayBatchSize < 1 {
		problems = append(problems, errors.New("RELAY_BATCH_SIZE must be positive"))
	}
	if c.RelayMaxAttempts < 1 {
		problems = append(problems, errors.New("RELAY_MAX_ATTEMPTS must be positive"))
	}
	if c.DocumentURLTTL <= 0 {
		problems = append(problems, errors.New("DOCUMENT_URL_TTL must be positive"))
	}
	return errors.Join(problems...)
}
