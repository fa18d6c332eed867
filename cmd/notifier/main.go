package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/config"
	"github.com/example/watchlist/internal/notifier"
	"github.com/example/watchlist/pkg/mailer"
	"github.com/example/watchlist/pkg/messagequeue"
)

func main() {
	if os.Getenv("GIN_MODE") != "release" {
		_ = godotenv.Load()
	}
	appConfig, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load notifier configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if appConfig.IsRelease() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	m, err := mailer.New(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUser,
		Password: appConfig.SMTPPassword,
		From:     appConfig.MailFrom,
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to configure mailer", zap.Error(err))
	}

	queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL}, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := notifier.New(m, zapLogger)
	zapLogger.Info("Notifier consuming events", zap.String("queue", appConfig.EventsQueue))
	if err := queue.Consume(ctx, appConfig.EventsQueue, n.Handle); err != nil {
		zapLogger.Error("Consumer stopped with error", zap.Error(err))
		return
	}
	zapLogger.Info("Notifier exiting gracefully.")
}
