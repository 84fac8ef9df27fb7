// Package poller drives the master side of the bus exchange: one read
// transaction per tick, byte-count liveness with edge-only logging, and
// packet decode into the state store.
package poller

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/bus"
	"github.com/eddie772tw/motolink/internal/packet"
	"github.com/eddie772tw/motolink/internal/state"
)

// Pulser fires the visual acknowledgment that follows a non-idle event.
type Pulser interface {
	Pulse(channel string)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	// Interval is the fixed poll cadence.
	Interval time.Duration
	// AckChannel names the indicator channel pulsed on non-idle events.
	AckChannel string
}

// Poller is a dumb, clock-driven reader. It never blocks past the bus
// timeout and never runs concurrently with itself.
type Poller struct {
	cfg       Config
	transport bus.Transport
	store     *state.Store
	pulser    Pulser
	clock     clockwork.Clock
	logger    *zerolog.Logger
}

// New creates a poller with immutable config.
func New(
	cfg Config,
	transport bus.Transport,
	store *state.Store,
	pulser Pulser,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) (*Poller, error) {
	if transport == nil {
		return nil, errors.New("poller: transport required")
	}
	if store == nil {
		return nil, errors.New("poller: store required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	return &Poller{
		cfg:       cfg,
		transport: transport,
		store:     store,
		pulser:    pulser,
		clock:     clock,
		logger:    logger,
	}, nil
}

// PollOnce performs exactly one poll cycle.
//
// Liveness is determined solely by byte count: exactly packet.Size bytes
// means online, anything else means offline. Packet content never factors
// in; an idle flag inside a full-length response still counts as online.
// Failures are states, not errors; the next tick retries naturally.
func (p *Poller) PollOnce() {
	buf, err := p.transport.ReadTransaction(packet.Size)
	if err != nil || len(buf) != packet.Size {
		if p.store.MarkOffline() {
			p.logger.Warn().
				Err(err).
				Int("bytes", len(buf)).
				Msg("Peripheral offline")
		}
		return
	}

	if p.store.MarkOnline() {
		p.logger.Info().Msg("Peripheral online")
	}

	var raw [packet.Size]byte
	copy(raw[:], buf)
	e := packet.Decode(raw)

	switch e.Kind {
	case packet.KindIdle:
		return

	case packet.KindIdentifier:
		id := e.IdentifierString()
		p.store.SetIdentifier(id)
		p.logger.Info().Str("identifier", id).Msg("Identifier received")

	case packet.KindEnvironment:
		t := state.Telemetry{
			Temperature: e.TemperatureC(),
			Humidity:    int(e.Humidity),
			Light:       int(e.Light),
		}
		p.store.SetTelemetry(t)
		p.logger.Debug().
			Float64("temperature", t.Temperature).
			Int("humidity", t.Humidity).
			Int("light", t.Light).
			Msg("Environment received")

	default:
		// Reserved flag from newer firmware: log and carry on.
		p.logger.Warn().
			Uint8("flag", e.Flag).
			Msg("Unrecognized packet flag ignored")
	}

	if p.pulser != nil {
		p.pulser.Pulse(p.cfg.AckChannel)
	}
}
