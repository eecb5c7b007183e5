package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"orderflow/cmd"
	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/adapters/out/cache"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/objectstore"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/xlsx"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/auth"
	"orderflow/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const serviceName = "orderflow"

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustGormOpen(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	storage, err := objectstore.New(objectstore.Config{
		Endpoint:  configs.MinioEndpoint,
		AccessKey: configs.MinioAccessKey,
		SecretKey: configs.MinioSecretKey,
		Bucket:    configs.MinioBucket,
		UseSSL:    configs.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("failed to create object storage client: %v", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed to prepare bucket %s: %v", configs.MinioBucket, err)
	}

	verifier, err := auth.NewVerifier(configs.JWTSecret)
	if err != nil {
		log.Fatalf("failed to create token verifier: %v", err)
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	fanout := notify.NewFanout().With("websocket", hub)
	var notifier *kafka.Notifier
	if brokers := kafka.ParseBrokers(configs.KafkaBrokers); len(brokers) > 0 {
		notifier = kafka.NewNotifier(kafka.NewWriter(brokers, configs.KafkaNotificationTopic))
		fanout = fanout.With("kafka", notifier)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, notifications go to websocket sessions only")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg)
	relayMetrics := metrics.NewRelayMetrics(reg)

	app := cmd.NewCompositionRoot(configs, gormDB, cmd.Adapters{
		Renderer: xlsx.NewRenderer(),
		Storage:  storage,
		Notifier: fanout,
		Observer: relayMetrics,
	}, logger)

	var idempotency ports.IdempotencyStore
	if configs.RedisAddr != "" {
		idempotency = cache.NewIdempotencyStore(cache.NewClient(configs.RedisAddr), serviceName, 30*time.Second, configs.IdempotencyTTL)
	} else {
		logger.Warn("REDIS_ADDR is empty, Idempotency-Key headers are ignored")
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	e := httpadapter.NewRouter(app.CreateHTTPServer(), httpadapter.RouterOptions{
		Auth:        verifier,
		Idempotency: idempotency,
		Metrics:     serverMetrics,
		Logger:      logger,
	})
	e.Logger.SetLevel(log.INFO)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))
	e.GET("/ws", hub.ServeWs(verifier))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			logger.Error("kafka writer close failed", "error", err)
		}
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),
		LogLevel: logLevel(os.Getenv("LOG_LEVEL")),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOr("MINIO_BUCKET", "documents"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),

		KafkaBrokers:           os.Getenv("KAFKA_BROKERS"),
		KafkaNotificationTopic: envOr("KAFKA_NOTIFICATION_TOPIC", "order.notifications"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		RelayBatchSize:   envInt("RELAY_BATCH_SIZE", 50),
		RelayMaxAttempts: envInt("RELAY_MAX_ATTEMPTS", 10),
		DocumentURLTTL:   envDuration("DOCUMENT_URL_TTL", 15*time.Minute),
	}
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connection to postgres through gorm\n: %s", err)
	}
	return gormDB
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
