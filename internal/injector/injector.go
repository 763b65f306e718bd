//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/focusar/internal/core/observability/log"
)

func InitializeApp(configPath string) (*App, error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		ProvideBus,
		ProvideBroadcaster,
		ProvideSink,
		ProvideEngine,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
