package app

import (
	"context"
	"fmt"

	"go-hostel-leave/internal/bootstrap"
	"go-hostel-leave/internal/events"
	"go-hostel-leave/internal/messaging/kafka/consumer"
	"go-hostel-leave/internal/notification"
	"go-hostel-leave/internal/shared/config"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer notifies requesters and approvers about leave lifecycle events
// until SIGINT/SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        cfg.ConsumerGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	notifier := notification.NewLogNotifier(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveLifecycle(ctx, reader, notifier, logger)

	sig := bootstrap.WaitForSignal()
	log.Info("consumer shutting down", zap.String("signal", sig.String()))

	return nil
}
