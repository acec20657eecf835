package auth

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"google.golang.org/grpc"
)

// UnaryServerInterceptor resolves the bearer token to a session and enforces the policy.
func UnaryServerInterceptor(uc UseCase, policy *Policy) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if policy.IsPublic(info.FullMethod) {
			return handler(ctx, req)
		}

		token := BearerToken(ctx)
		session, err := uc.GetSession(ctx, token)
		if err != nil {
			return nil, apperror.ToStatus(err)
		}
		if !policy.Allows(info.FullMethod, session) {
			return nil, apperror.ToStatus(fmt.Errorf("%s requires another role: %w", info.FullMethod, apperror.ErrForbidden))
		}

		return handler(WithSession(ctx, session, token), req)
	}
}
