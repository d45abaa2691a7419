package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/types"
)

func TestDispatcher_DeliversResolutionsFromRegistry(t *testing.T) {
	d := New(&config.Config{Notifier: config.NotifierConfig{Buffer: 4}}, zap.NewNop().Sugar())

	var mu sync.Mutex
	var got []string
	d.AddHandler(func(_ context.Context, ev registry.ResolvedEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.Record.CorrelationID)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	reg := registry.New(zap.NewNop().Sugar(), nil)
	reg.Subscribe(d)
	_, err := reg.Register("CO1", registry.Metadata{PhoneNumber: "254712345678"})
	require.NoError(t, err)
	_, err = reg.Resolve("CO1", registry.Outcome{Status: types.PaymentStatusCompleted})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "CO1"
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := New(&config.Config{Notifier: config.NotifierConfig{Buffer: 1}}, zap.New(core).Sugar())

	d.PaymentResolved(registry.ResolvedEvent{Record: registry.PaymentRecord{CorrelationID: "a"}})
	d.PaymentResolved(registry.ResolvedEvent{Record: registry.PaymentRecord{CorrelationID: "b"}})

	require.Equal(t, 1, logs.FilterMessage("notification_dropped").Len())
}

func TestDispatcher_HandlerPanicIsContained(t *testing.T) {
	d := New(&config.Config{Notifier: config.NotifierConfig{Buffer: 2}}, zap.NewNop().Sugar())
	calls := make(chan string, 2)
	d.AddHandler(func(context.Context, registry.ResolvedEvent) { panic("boom") })
	d.AddHandler(func(_ context.Context, ev registry.ResolvedEvent) { calls <- ev.Record.CorrelationID })

	d.PaymentResolved(registry.ResolvedEvent{Record: registry.PaymentRecord{CorrelationID: "x"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	require.Equal(t, "x", <-calls)
}

func TestLogHandler_LateResolutionWarns(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := LogHandler(zap.New(core).Sugar())

	h(context.Background(), registry.ResolvedEvent{
		Record: registry.PaymentRecord{CorrelationID: "CO9", Status: types.PaymentStatusCompleted},
		Late:   true,
	})

	entries := logs.FilterMessage("payment_notification_late").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.WarnLevel, entries[0].Level)
}
