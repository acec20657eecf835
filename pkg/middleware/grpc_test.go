package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/omnipos.pos.v1.CartService/GetCart"}

func TestRecoveryConvertsPanic(t *testing.T) {
	interceptor := Recovery(logger.NewNopLogger())

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRecoveryPassesThrough(t *testing.T) {
	interceptor := Recovery(logger.NewNopLogger())

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLoggingKeepsHandlerResult(t *testing.T) {
	interceptor := Logging(logger.NewNopLogger())
	want := status.Error(codes.NotFound, "missing")

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	})
	assert.Nil(t, resp)
	assert.Equal(t, want, err)
}

func TestMetricsObservesByCode(t *testing.T) {
	interceptor := Metrics()
	before := testutil.CollectAndCount(metrics.GRPCRequestDuration)

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/test.Metrics/Call"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("plain")
	})
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.GRPCRequestDuration))
}
