package app

import (
	"context"
	"fmt"

	"go-hostel-leave/internal/bootstrap"
	"go-hostel-leave/internal/messaging/kafka"
	"go-hostel-leave/internal/messaging/kafka/producer"
	"go-hostel-leave/internal/shared/config"
	"go-hostel-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox_events to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("worker requires DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.Database.Driver)
	}
	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	sig := bootstrap.WaitForSignal()
	log.Info("worker shutting down", zap.String("signal", sig.String()))

	return nil
}
