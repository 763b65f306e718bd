// Package injector assembles the application graph. InitializeApp is
// generated by wire from injector.go.
package injector

import (
	"github.com/zeusync/focusar/internal/config"
	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/engine"
	"github.com/zeusync/focusar/internal/server"
)

// App is the wired application.
type App struct {
	Config      config.Config
	Logger      *log.Logger
	Bus         bus.EventBus
	Broadcaster *server.Broadcaster
	Engine      *engine.Engine
}

func ProvideConfig(configPath string) (config.Config, error) {
	return config.LoadFile(configPath)
}

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.Level())
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideBroadcaster(cfg config.Config, logger log.Log) *server.Broadcaster {
	return server.NewBroadcaster(server.BroadcasterConfig{
		Fingerprint:  cfg.Fingerprint(),
		SendBuffer:   cfg.Server.SendBuffer,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, logger)
}

// ProvideSink sends commands to remote renderers and to the log.
func ProvideSink(b *server.Broadcaster, logger log.Log) presentation.Sink {
	return presentation.Fanout(b, presentation.NewLogSink(logger))
}

func ProvideEngine(cfg config.Config, sink presentation.Sink, eb bus.EventBus, logger log.Log) (*engine.Engine, error) {
	return engine.New(engine.Options{Config: cfg, Sink: sink, Bus: eb, Logger: logger})
}
