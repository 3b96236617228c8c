package bootstrap

import "context"

// AuditLog is a single operator-facing audit record.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
