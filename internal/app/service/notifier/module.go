package notifier

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
)

func start(lc fx.Lifecycle, d *Dispatcher, reg *registry.Registry, log *zap.SugaredLogger) {
	d.AddHandler(LogHandler(log))
	reg.Subscribe(d)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				d.Run(ctx)
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

// Module wires the dispatcher to the registry via Fx.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(start),
)
