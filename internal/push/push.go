package push

import "context"

// Dispatcher sends a notification to an opaque delivery address (the user's
// push token). Implementations must treat failures as per-item errors; the
// caller logs and moves on.
type Dispatcher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
