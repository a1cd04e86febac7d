// Package userctx carries the authenticated user id through request contexts.
package userctx

import (
	"context"
	"strings"
)

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, strings.TrimSpace(userID))
}

// GetUserID reports false when no user id, or an empty one, is attached.
func GetUserID(ctx context.Context) (string, bool) {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID, userID != ""
}
