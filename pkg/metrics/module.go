package metrics

import "go.uber.org/fx"

// Module provides the business metric set. HTTP exposition is wired by the server.
var Module = fx.Options(
	fx.Provide(NewBusiness),
)
