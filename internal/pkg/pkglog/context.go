package pkglog

import "context"

type (
	correlationIDKey struct{}
	sessionIDKey     struct{}
)

// GetCorrelationID returns the request correlation ID, or "" when none was set.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// GetSessionID returns the dashboard session a log line belongs to, or "".
func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}

// SetSessionID tags ctx so every record logged with it carries session_id.
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}
