package notifier

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/config"
)

// Handler reacts to a resolved payment. It runs on the dispatcher goroutine.
type Handler func(ctx context.Context, ev registry.ResolvedEvent)

// Dispatcher decouples registry resolution from notification delivery. Events
// are queued without blocking the resolver and handled on one goroutine.
type Dispatcher struct {
	log      *zap.SugaredLogger
	queue    chan registry.ResolvedEvent
	mu       sync.RWMutex
	handlers []Handler
}

func New(cfg *config.Config, log *zap.SugaredLogger) *Dispatcher {
	buf := cfg.Notifier.Buffer
	if buf <= 0 {
		buf = 1
	}
	return &Dispatcher{log: log, queue: make(chan registry.ResolvedEvent, buf)}
}

func (d *Dispatcher) AddHandler(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// PaymentResolved implements registry.Listener. A full queue drops the event.
func (d *Dispatcher) PaymentResolved(ev registry.ResolvedEvent) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warnw("notification_dropped", "checkout_request_id", ev.Record.CorrelationID, "reason", "queue full")
	}
}

// Run drains the queue until ctx is done, then handles whatever is still buffered.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			d.dispatch(ctx, ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.queue:
					d.dispatch(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev registry.ResolvedEvent) {
	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.Errorw("notification_handler_panic", "checkout_request_id", ev.Record.CorrelationID, "panic", r)
				}
			}()
			h(ctx, ev)
		}()
	}
}
