package payment

import (
	"go.uber.org/fx"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
)

func asTracker(r *registry.Registry) Tracker { return r }

// Module exposes the initiation adapter and status facade via Fx.
var Module = fx.Options(
	fx.Provide(asTracker),
	fx.Provide(NewMpesaProvider),
	fx.Provide(NewInitiator),
	fx.Provide(NewFacade),
)
