package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-hostel-leave/internal/events"
	"go-hostel-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandleOutcome tells the loop whether the offset may be committed.
type HandleOutcome int

const (
	OutcomeHandled HandleOutcome = iota
	OutcomeSkipped
	OutcomeRetry
)

// maxHandleAttempts bounds in-place retries of one message; after that the
// offset is committed and the notification dropped.
const maxHandleAttempts = 3

var retryBackoff = time.Second

func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		outcome := HandleMessage(ctx, msg, notifier, log)
		for attempt := 1; outcome == OutcomeRetry && attempt < maxHandleAttempts; attempt++ {
			if !sleepContext(ctx, time.Duration(attempt)*retryBackoff) {
				// uncommitted, redelivered after restart
				log.Info("leave lifecycle consumer stopped")
				return
			}
			outcome = HandleMessage(ctx, msg, notifier, log)
		}
		if outcome == OutcomeRetry {
			log.Error("drop leave lifecycle message after retries",
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", maxHandleAttempts),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleMessage decodes one record and notifies. Undecodable records are
// skipped so they cannot block the partition.
func HandleMessage(
	ctx context.Context,
	msg kafkago.Message,
	notifier notification.Notifier,
	logger *zap.Logger,
) HandleOutcome {
	event, err := decodeLeaveEvent(msg.Value)
	if err != nil {
		logger.Error("decode leave event failed",
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return OutcomeSkipped
	}

	if event.RequestID == "" {
		event.RequestID = headerValue(msg, "request_id")
	}

	switch event.EventType {
	case events.EventLeaveSubmitted, events.EventLeaveDecided:
	default:
		logger.Warn("ignore unknown leave event",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
		return OutcomeSkipped
	}

	if err := notifier.Notify(ctx, event); err != nil {
		logger.Error("notify leave event failed",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
		return OutcomeRetry
	}

	logger.Info("leave event handled",
		zap.String("request_id", event.RequestID),
		zap.String("event_type", event.EventType),
		zap.String("leave_id", event.LeaveID),
		zap.String("status", event.Status),
	)
	return OutcomeHandled
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func decodeLeaveEvent(raw []byte) (events.LeaveEvent, error) {
	var event events.LeaveEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return events.LeaveEvent{}, err
	}
	if event.LeaveID == "" {
		return events.LeaveEvent{}, fmt.Errorf("leave event without leave_id")
	}
	return event, nil
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
