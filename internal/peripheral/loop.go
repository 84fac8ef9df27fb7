package peripheral

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/mailbox"
	"github.com/eddie772tw/motolink/internal/packet"
)

// loopResolution paces the cooperative loop. Producer cadences are measured
// against the clock, not against this tick.
const loopResolution = 20 * time.Millisecond

// Config is the loop's runtime configuration.
type Config struct {
	// ScanInterval paces identifier scans.
	ScanInterval time.Duration
	// SampleInterval paces environment samples.
	SampleInterval time.Duration
}

// Loop is the peripheral's cooperative main loop. Each iteration runs the
// slow producers (when due) and executes at most one pending command. The
// producers only ever offer completed results to the mailbox.
type Loop struct {
	cfg     Config
	box     *mailbox.Mailbox
	scanner IdentifierScanner
	sampler EnvironmentSampler
	audio   AudioDriver
	clock   clockwork.Clock
	logger  *zerolog.Logger

	lastScan   time.Time
	lastSample time.Time
}

func NewLoop(
	cfg Config,
	box *mailbox.Mailbox,
	scanner IdentifierScanner,
	sampler EnvironmentSampler,
	audio AudioDriver,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) (*Loop, error) {
	if cfg.ScanInterval <= 0 {
		return nil, errors.New("peripheral: scan interval must be > 0")
	}
	if cfg.SampleInterval <= 0 {
		return nil, errors.New("peripheral: sample interval must be > 0")
	}
	return &Loop{
		cfg:     cfg,
		box:     box,
		scanner: scanner,
		sampler: sampler,
		audio:   audio,
		clock:   clock,
		logger:  logger,
	}, nil
}

// Run iterates until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := l.clock.NewTicker(loopResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			l.Iterate(now)
		}
	}
}

// Iterate performs exactly one loop pass at the given time.
func (l *Loop) Iterate(now time.Time) {
	l.scanIdentifier(now)
	l.sampleEnvironment(now)
	l.runCommand()
}

func (l *Loop) scanIdentifier(now time.Time) {
	if now.Sub(l.lastScan) < l.cfg.ScanInterval {
		return
	}
	l.lastScan = now

	// An undrained event suppresses production for this cycle.
	if l.box.OutboundPending() {
		return
	}

	id, ok := l.scanner.Scan()
	if !ok {
		return
	}

	e := packet.NewIdentifier(id)
	if l.box.Offer(e) {
		l.logger.Info().
			Str("identifier", e.IdentifierString()).
			Msg("Identifier scanned")
	}
}

func (l *Loop) sampleEnvironment(now time.Time) {
	if now.Sub(l.lastSample) < l.cfg.SampleInterval {
		return
	}
	l.lastSample = now

	if l.box.OutboundPending() {
		return
	}

	r, ok := l.sampler.Sample()
	if !ok {
		l.logger.Debug().Msg("No environment reading, skipped")
		return
	}

	e := packet.NewEnvironment(
		int16(r.Temperature*10),
		uint8(r.Humidity),
		int16(r.Light),
	)
	if l.box.Offer(e) {
		l.logger.Debug().
			Float64("temperature", r.Temperature).
			Int("humidity", r.Humidity).
			Int("light", r.Light).
			Msg("Environment reading packaged")
	}
}

// runCommand drains at most one pending command per iteration. Unknown
// codes are dropped here, not at receipt: the handler stores whatever the
// master sent and the loop decides what it can execute.
func (l *Loop) runCommand() {
	cmd, ok := l.box.TakeCommand()
	if !ok {
		return
	}

	switch cmd.Code {
	case packet.CmdPlay:
		l.audio.Play(cmd.Param)
	case packet.CmdVolumeUp:
		l.audio.VolumeUp()
	case packet.CmdVolumeDown:
		l.audio.VolumeDown()
	default:
		l.logger.Debug().
			Str("command", string(cmd.Code)).
			Msg("Unknown command dropped")
	}
}
