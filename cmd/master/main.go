package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eddie772tw/motolink/internal/api"
	"github.com/eddie772tw/motolink/internal/bus/serialbus"
	"github.com/eddie772tw/motolink/internal/config"
	"github.com/eddie772tw/motolink/internal/dispatch"
	"github.com/eddie772tw/motolink/internal/indicator"
	"github.com/eddie772tw/motolink/internal/logging"
	"github.com/eddie772tw/motolink/internal/poller"
	"github.com/eddie772tw/motolink/internal/state"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: master <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)
	if cfg.Master == nil {
		log.Fatal("config: master section required")
	}
	mc := cfg.Master

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// ---- bus transport ----

	transport, err := serialbus.NewMaster(serialbus.Config{
		Device:     mc.Bus.Device,
		BaudRate:   mc.Bus.BaudRate,
		Peripheral: mc.Bus.Address,
		Timeout:    time.Duration(mc.Bus.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Bus open failed")
	}
	defer transport.Close()

	// ---- core components ----

	clock := clockwork.NewRealClock()
	store := state.NewStore()

	driver := indicator.NewLogDriver(logger)
	blinker := indicator.New(driver, clock, mc.Indicator.Channels)

	p, err := poller.New(
		poller.Config{
			Interval:   time.Duration(mc.PollIntervalMs) * time.Millisecond,
			AckChannel: mc.Indicator.AckChannel,
		},
		transport, store, blinker, clock, logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Poller build failed")
	}

	d, err := dispatch.New(
		dispatch.Config{CmdChannel: mc.Indicator.CmdChannel},
		transport, store, blinker, logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Dispatcher build failed")
	}

	// ---- run ----

	go p.Run(ctx)
	go blinker.Run(ctx)

	srv := api.NewServer(store, d, blinker, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Msg("Master controller up")
	if err := srv.ListenAndServe(mc.HTTP.Listen); err != nil {
		logger.Info().Err(err).Msg("HTTP server stopped")
	}
}
