package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eddie772tw/motolink/internal/bus/serialbus"
	"github.com/eddie772tw/motolink/internal/config"
	"github.com/eddie772tw/motolink/internal/logging"
	"github.com/eddie772tw/motolink/internal/mailbox"
	"github.com/eddie772tw/motolink/internal/peripheral"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: peripheral <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)
	if cfg.Peripheral == nil {
		log.Fatal("config: peripheral section required")
	}
	pc := cfg.Peripheral

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

	// ---- mailbox + transaction handler ----

	box := mailbox.New()
	handler := peripheral.NewHandler(box, logger)

	listener, err := serialbus.NewListener(serialbus.Config{
		Device:     pc.Bus.Device,
		BaudRate:   pc.Bus.BaudRate,
		Peripheral: pc.Bus.Address,
		Timeout:    time.Duration(pc.Bus.TimeoutMs) * time.Millisecond,
	}, handler, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Bus open failed")
	}
	defer listener.Close()

	// ---- work loop ----
	//
	// Vendor sensor/audio drivers plug in here; the defaults produce
	// nothing and log forwarded audio commands.

	loop, err := peripheral.NewLoop(
		peripheral.Config{
			ScanInterval:   time.Duration(pc.ScanIntervalMs) * time.Millisecond,
			SampleInterval: time.Duration(pc.SampleIntervalMs) * time.Millisecond,
		},
		box,
		peripheral.NoScanner{},
		peripheral.NoSampler{},
		peripheral.LogAudio{Logger: logger},
		clockwork.NewRealClock(),
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Work loop build failed")
	}

	go loop.Run(ctx)

	logger.Info().Msg("Peripheral controller up")
	if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("Bus listener failed")
	}
}
