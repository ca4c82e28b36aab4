package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aerodesk/aircheckin/config"
	"github.com/aerodesk/aircheckin/internal/bootstrap"
	"github.com/aerodesk/aircheckin/internal/cache"
	"github.com/aerodesk/aircheckin/internal/kafka"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/metrics"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/aerodesk/aircheckin/internal/service/checkin"
	"github.com/aerodesk/aircheckin/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(cfg.Environment)
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Error("connect postgres failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrator, err := bootstrap.NewMigrator(pool, cfg.Database.MigrationsPath)
	if err != nil {
		zlog.Error("init migrator failed", "error", err)
		os.Exit(1)
	}
	if err := migrator.Run(ctx); err != nil {
		zlog.Error("apply migrations failed", "error", err)
		os.Exit(1)
	}
	migrator.Close()

	cacheTTL := time.Duration(cfg.CheckIn.FlightsCacheTTL) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, cacheTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	m := metrics.New("aircheckin")

	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	passRepo := repository.NewBoardingPassRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)

	flightService := flights.NewFlightService(flightRepo, passengerRepo, passRepo, redisCache, zlog)
	checkinService := checkin.NewCheckInService(
		flightRepo,
		passengerRepo,
		passRepo,
		producer,
		zlog,
		cfg.Kafka.CheckinTopic,
		checkin.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		checkin.WithMetrics(m),
		checkin.WithRecentLimit(cfg.CheckIn.RecentCheckins),
	)

	if err := bootstrap.Run(ctx, cfg, zlog, m, agentRepo, flightService, checkinService); err != nil {
		zlog.Error("server error", "error", err)
		os.Exit(1)
	}
}
