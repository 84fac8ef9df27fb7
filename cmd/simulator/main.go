// The simulator runs both controllers back-to-back over the in-memory
// loopback bus, with synthetic sensor drivers. Useful for exercising the
// full exchange protocol and the HTTP surface without hardware.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eddie772tw/motolink/internal/api"
	"github.com/eddie772tw/motolink/internal/bus/loopback"
	"github.com/eddie772tw/motolink/internal/config"
	"github.com/eddie772tw/motolink/internal/dispatch"
	"github.com/eddie772tw/motolink/internal/indicator"
	"github.com/eddie772tw/motolink/internal/logging"
	"github.com/eddie772tw/motolink/internal/mailbox"
	"github.com/eddie772tw/motolink/internal/peripheral"
	"github.com/eddie772tw/motolink/internal/poller"
	"github.com/eddie772tw/motolink/internal/state"
)

// fakeScanner presents a random tag once in a while.
type fakeScanner struct{}

func (fakeScanner) Scan() ([]byte, bool) {
	if rand.Intn(25) != 0 {
		return nil, false
	}
	id := make([]byte, 4)
	rand.Read(id)
	return id, true
}

// fakeSampler drifts around plausible indoor values.
type fakeSampler struct{}

func (fakeSampler) Sample() (peripheral.Reading, bool) {
	return peripheral.Reading{
		Temperature: 23.5 + rand.Float64()*2 - 1,
		Humidity:    40 + rand.Intn(20),
		Light:       150 + rand.Intn(300),
	}, true
}

func main() {
	listen := flag.String("listen", config.DefaultHTTPListen, "HTTP listen address")
	level := flag.String("log-level", "debug", "log level")
	flag.Parse()

	logger, err := logging.New(logging.Config{Level: *level, Output: "console"})
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	clock := clockwork.NewRealClock()

	// ---- peripheral side ----

	box := mailbox.New()
	handler := peripheral.NewHandler(box, logger)
	loop, err := peripheral.NewLoop(
		peripheral.Config{
			ScanInterval:   time.Duration(config.DefaultScanIntervalMs) * time.Millisecond,
			SampleInterval: time.Duration(config.DefaultSampleIntervalMs) * time.Millisecond,
		},
		box,
		fakeScanner{},
		fakeSampler{},
		peripheral.LogAudio{Logger: logger},
		clock,
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Work loop build failed")
	}

	// ---- master side, wired straight through ----

	transport := loopback.New(handler)
	store := state.NewStore()
	driver := indicator.NewLogDriver(logger)
	blinker := indicator.New(driver, clock, []string{"G", "B"})

	p, err := poller.New(
		poller.Config{
			Interval:   time.Duration(config.DefaultPollIntervalMs) * time.Millisecond,
			AckChannel: "B",
		},
		transport, store, blinker, clock, logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Poller build failed")
	}

	d, err := dispatch.New(
		dispatch.Config{CmdChannel: "G"},
		transport, store, blinker, logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Dispatcher build failed")
	}

	go loop.Run(ctx)
	go p.Run(ctx)
	go blinker.Run(ctx)

	srv := api.NewServer(store, d, blinker, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("listen", *listen).Msg("Simulator up, both controllers on loopback bus")
	if err := srv.ListenAndServe(*listen); err != nil {
		logger.Info().Err(err).Msg("HTTP server stopped")
	}
}
