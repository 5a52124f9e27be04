package xcontext

import "context"

type userIDKey struct{}

// WithUserID attaches the verified caller to ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the verified caller, or 0 for anonymous requests.
func UserID(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey{}).(uint)
	return id
}
