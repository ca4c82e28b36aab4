package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aerodesk/aircheckin/config"
	"github.com/aerodesk/aircheckin/internal/kafka"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/notify"
	"github.com/joho/godotenv"
)

// The worker drains the notifications topic and hands each check-in event to
// the notification sender.
func main() {
	_ = godotenv.Load()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	sender := notify.NewSender(zlog)

	if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.CheckinEvent) error {
		return sender.Send(ctx, event)
	}); err != nil && ctx.Err() == nil {
		zlog.Error("consumer stopped", "error", err)
	}
}
