package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/focusar/internal/core/clock"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/engine"
	"github.com/zeusync/focusar/internal/injector"
	"github.com/zeusync/focusar/internal/replay"
	"github.com/zeusync/focusar/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "focusar:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to the YAML configuration; defaults apply when empty")
		tracePath  = flag.String("trace", "", "path to the YAML tracking trace to replay")
		realtime   = flag.Bool("realtime", false, "pace frames on the wall clock")
		listen     = flag.String("listen", "", "serve the websocket feed on this address, overriding the config")
		hold       = flag.Bool("hold", false, "keep serving after the trace ends until interrupted")
		dump       = flag.Bool("dump-config", false, "print the effective configuration and exit")
	)
	flag.Parse()

	app, err := injector.InitializeApp(*configPath)
	if err != nil {
		return err
	}
	defer app.Logger.Sync()
	logger := app.Logger

	if *dump {
		return app.Config.Encode(os.Stdout)
	}
	if *tracePath == "" {
		return fmt.Errorf("-trace is required")
	}
	trace, err := replay.LoadFile(*tracePath)
	if err != nil {
		return err
	}

	if _, err := engine.LogActivations(app.Bus, logger); err != nil {
		return err
	}

	addr := app.Config.Server.Listen
	if *listen != "" {
		addr = *listen
	}

	player, err := replay.NewPlayer(trace, app.Engine, replay.Options{
		Interval: app.Config.TickInterval(),
		Realtime: *realtime,
		MarkerA:  app.Config.Proximity.MarkerA,
		MarkerB:  app.Config.Proximity.MarkerB,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("focusar starting",
		log.String("config", *configPath),
		log.String("trace", *tracePath),
		log.String("fingerprint", app.Config.Fingerprint()),
		log.String("listen", addr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	wall := clock.NewMonotonic()

	if addr != "" {
		srv := server.New(addr, app.Config.Server.Path, app.Broadcaster, logger)
		if err := srv.Listen(); err != nil {
			return err
		}
		g.Go(func() error { return srv.Serve(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		return app.Broadcaster.Close()
	})

	g.Go(func() error {
		defer cancel()
		app.Engine.Start()
		stats, err := player.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("trace finished",
			log.Int("frames", stats.Frames),
			log.Duration("end", stats.End),
			log.Bool("interrupted", stats.Interrupted),
		)
		if *hold && addr != "" && !stats.Interrupted {
			<-ctx.Done()
		}
		return nil
	})

	err = g.Wait()

	m := app.Bus.GetMetrics()
	logger.Info("focusar stopped",
		log.Uint64("frames", app.Engine.Frames()),
		log.Uint64("activations", app.Engine.Focus().Activations()),
		log.Uint64("events", m.Published),
		log.Int("config_errors", len(app.Engine.ConfigErrors())),
		log.Duration("wall", wall.Now()),
	)
	return err
}
