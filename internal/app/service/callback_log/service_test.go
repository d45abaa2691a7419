package callback_log

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/paytrack/internal/models"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/logctx"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{Audit: config.AuditConfig{Dir: t.TempDir()}}
	svc, err := New(cfg, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	return svc
}

func TestSave_AppendsDailyFile(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2025, 6, 28, 14, 0, 0, 0, time.UTC)
	svc.file.now = func() time.Time { return day }
	svc.now = func() time.Time { return day }

	ctx := logctx.WithTraceID(context.Background(), "trace-1")
	entry := &models.PaymentCallbackLog{
		ProviderID:        "mpesa",
		Kind:              "stk_callback",
		CheckoutRequestID: "CO999",
		Data:              datatypes.JSON(`{"Body":{"stkCallback":{"CheckoutRequestID":"CO999","ResultCode":0}}}`),
		Status:            models.PaymentCallbackLogStatusReceived,
	}
	require.NoError(t, svc.Save(ctx, entry))
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "trace-1", entry.TraceID)
	require.Equal(t, day, entry.ReceivedAt)

	raw, err := os.ReadFile(filepath.Join(svc.file.dir, "mpesa_callbacks_2025-06-28.jsonl"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"CheckoutRequestID":"CO999"`)
}

func TestRecent_FallsBackToFileNewestFirst(t *testing.T) {
	svc := newTestService(t)

	for _, id := range []string{"CO1", "CO2", "CO3"} {
		require.NoError(t, svc.Save(context.Background(), &models.PaymentCallbackLog{
			ProviderID:        "mpesa",
			Kind:              "stk_callback",
			CheckoutRequestID: id,
			Data:              datatypes.JSON(`{}`),
			Status:            models.PaymentCallbackLogStatusReceived,
		}))
	}

	out, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "CO3", out[0].CheckoutRequestID)
	require.Equal(t, "CO2", out[1].CheckoutRequestID)
}

func TestTail_MissingFileIsEmpty(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	out, err := sink.Tail(5)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestTail_SkipsCorruptLines(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, sink.Append(&models.PaymentCallbackLog{CheckoutRequestID: "CO1", Data: datatypes.JSON(`{}`)}))

	fh, err := os.OpenFile(sink.path(sink.now()), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fh.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, fh.Close())

	out, err := sink.Tail(10)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestList_WithoutDatabase(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.List(context.Background(), &ListRequest{})
	require.ErrorIs(t, err, ErrDatabaseDisabled)
}
