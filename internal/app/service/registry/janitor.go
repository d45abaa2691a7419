package registry

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/config"
)

// Janitor periodically prunes resolved payments past retention and surfaces
// payments stuck in PENDING.
type Janitor struct {
	reg        *Registry
	log        *zap.SugaredLogger
	interval   time.Duration
	retention  time.Duration
	stuckAfter time.Duration
	now        func() time.Time
}

func NewJanitor(reg *Registry, log *zap.SugaredLogger, cfg *config.Config) *Janitor {
	return &Janitor{
		reg:        reg,
		log:        log,
		interval:   cfg.Registry.PruneInterval,
		retention:  cfg.Registry.Retention,
		stuckAfter: cfg.Registry.StuckAfter,
		now:        time.Now,
	}
}

// RunOnce prunes and reports once. It returns the number of pruned records and
// the stuck payments it found.
func (j *Janitor) RunOnce() (int, []PaymentRecord) {
	now := j.now()
	pruned := j.reg.Prune(now.Add(-j.retention))
	if pruned > 0 {
		j.log.Infow("registry_pruned", "count", pruned, "retention", j.retention.String())
	}

	var stuck []PaymentRecord
	if j.stuckAfter > 0 {
		stuck = j.reg.Stuck(now.Add(-j.stuckAfter))
		for _, rec := range stuck {
			j.log.Warnw("payment_stuck_pending",
				"checkout_request_id", rec.CorrelationID,
				"registered_at", rec.RegisteredAt,
				"pending_for", now.Sub(rec.RegisteredAt).Round(time.Second).String(),
			)
		}
	}
	return pruned, stuck
}

func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

func startJanitor(lc fx.Lifecycle, j *Janitor) {
	if j.interval <= 0 {
		j.log.Warnw("registry janitor disabled", "interval", j.interval.String())
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				j.run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
