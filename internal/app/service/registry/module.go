package registry

import "go.uber.org/fx"

// Module exposes the payment registry and its janitor via Fx.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(NewJanitor),
	fx.Invoke(startJanitor),
)
