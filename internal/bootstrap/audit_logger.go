package bootstrap

import "context"

// AuditLog is one audit record. Meta is free-form.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
