// Package auth carries the request actor through context for audit logging.
package auth

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID attaches the acting staff member's id to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the acting user's id, or "unknown" when the request was
// not attributed.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
