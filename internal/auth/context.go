package auth

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"google.golang.org/grpc/metadata"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	tokenKey
)

func WithSession(ctx context.Context, session *model.Session, token string) context.Context {
	ctx = context.WithValue(ctx, sessionKey, session)
	return context.WithValue(ctx, tokenKey, token)
}

// SessionFromContext returns the session the interceptor attached, or nil.
func SessionFromContext(ctx context.Context) *model.Session {
	if s, ok := ctx.Value(sessionKey).(*model.Session); ok {
		return s
	}
	return nil
}

func TokenFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}

// BearerToken reads the token from the authorization metadata.
func BearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get("authorization") {
		if len(v) > 7 && (v[:7] == "Bearer " || v[:7] == "bearer ") {
			return v[7:]
		}
	}
	return ""
}
