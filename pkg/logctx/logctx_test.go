package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromCtx_PrefersAttachedLogger(t *testing.T) {
	base := zap.NewNop().Sugar()
	attached := zap.NewExample().Sugar()

	ctx := WithLogger(context.Background(), attached)
	require.Same(t, attached, FromCtx(ctx, base))
}

func TestFromCtx_FallsBackToBase(t *testing.T) {
	base := zap.NewNop().Sugar()
	require.Same(t, base, FromCtx(context.Background(), base))
}

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-1")
	require.Equal(t, "trace-1", TraceID(ctx))
	require.Equal(t, "", TraceID(context.Background()))
}
