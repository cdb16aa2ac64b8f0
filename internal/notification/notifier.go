package notification

import (
	"context"
	"fmt"

	"go-hostel-leave/internal/events"

	"go.uber.org/zap"
)

// Notification is a rendered message for one audience.
type Notification struct {
	Audience string
	Subject  string
	Body     string
	Final    bool
}

const (
	AudienceApprovers = "approvers"
	AudienceRequester = "requester"
)

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveEvent) error
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notifications to the structured log instead of a mail gateway.
func NewLogNotifier(logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.log")
	}
	return &logNotifier{logger: l}
}

func (n *logNotifier) Notify(ctx context.Context, event events.LeaveEvent) error {
	msg, err := Render(event)
	if err != nil {
		n.logger.Warn("skip unsupported leave event",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
		return err
	}

	n.logger.Info("leave notification",
		zap.String("request_id", event.RequestID),
		zap.String("leave_id", event.LeaveID),
		zap.String("audience", msg.Audience),
		zap.String("requester_id", event.RequesterID),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.Bool("final", msg.Final),
	)
	return nil
}

// Render builds the message for a lifecycle event.
func Render(event events.LeaveEvent) (Notification, error) {
	switch event.EventType {
	case events.EventLeaveSubmitted:
		return Notification{
			Audience: AudienceApprovers,
			Subject:  fmt.Sprintf("New leave request from %s", event.RequesterName),
			Body: fmt.Sprintf("%s requested %s leave from %s to %s and needs parent and admin approval.",
				event.RequesterName, event.Category, event.FromDate, event.ToDate),
		}, nil
	case events.EventLeaveDecided:
		final := event.Status == "approved" || event.Status == "rejected"
		var body string
		switch event.Status {
		case "approved":
			body = fmt.Sprintf("Your leave from %s to %s has been approved by both parent and admin.", event.FromDate, event.ToDate)
		case "rejected":
			body = fmt.Sprintf("Your leave from %s to %s was rejected by the %s.", event.FromDate, event.ToDate, event.Role)
		default:
			body = fmt.Sprintf("The %s approved your leave from %s to %s. Waiting for the remaining approval.", event.Role, event.FromDate, event.ToDate)
		}
		return Notification{
			Audience: AudienceRequester,
			Subject:  fmt.Sprintf("Leave request %s", event.Status),
			Body:     body,
			Final:    final,
		}, nil
	default:
		return Notification{}, fmt.Errorf("unsupported leave event type: %q", event.EventType)
	}
}
