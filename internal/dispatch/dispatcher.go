// Package dispatch encodes outbound commands as bus write transactions.
// Fire-and-forget: no acknowledgment, no retry, no queueing for later
// delivery. Retries here would break the mailbox's last-write-wins
// contract on the peripheral side.
package dispatch

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/bus"
	"github.com/eddie772tw/motolink/internal/packet"
	"github.com/eddie772tw/motolink/internal/state"
)

// Pulser fires the visual acknowledgment after a dispatched command.
type Pulser interface {
	Pulse(channel string)
}

// Config names the indicator channel pulsed on dispatch.
type Config struct {
	CmdChannel string
}

// Dispatcher gates every command on current liveness: while the peripheral
// is offline each operation is a no-op that touches neither the bus nor
// any pending state.
type Dispatcher struct {
	cfg       Config
	transport bus.Transport
	store     *state.Store
	pulser    Pulser
	logger    *zerolog.Logger
}

func New(
	cfg Config,
	transport bus.Transport,
	store *state.Store,
	pulser Pulser,
	logger *zerolog.Logger,
) (*Dispatcher, error) {
	if transport == nil {
		return nil, errors.New("dispatch: transport required")
	}
	if store == nil {
		return nil, errors.New("dispatch: store required")
	}
	return &Dispatcher{
		cfg:       cfg,
		transport: transport,
		store:     store,
		pulser:    pulser,
		logger:    logger,
	}, nil
}

// PlayTrack requests playback of one track.
func (d *Dispatcher) PlayTrack(track uint8) {
	d.send("play", packet.CmdPlay, track)
}

func (d *Dispatcher) VolumeUp() {
	d.send("volume up", packet.CmdVolumeUp)
}

func (d *Dispatcher) VolumeDown() {
	d.send("volume down", packet.CmdVolumeDown)
}

func (d *Dispatcher) send(name string, payload ...byte) {
	if !d.store.Online() {
		d.logger.Debug().Str("command", name).Msg("Command skipped, peripheral offline")
		return
	}

	// A completed bus write is the only notion of success; even a port
	// error is not surfaced to the caller.
	if err := d.transport.WriteTransaction(payload); err != nil {
		d.logger.Warn().Err(err).Str("command", name).Msg("Command write failed")
		return
	}

	d.logger.Info().Str("command", name).Msg("Command sent")
	if d.pulser != nil {
		d.pulser.Pulse(d.cfg.CmdChannel)
	}
}
