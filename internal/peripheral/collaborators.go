// Package peripheral implements the sensor/actuator-facing controller: the
// bus transaction handler, the mailbox-draining work loop, and the producer
// cadence. Raw sensor acquisition and audio encoding live behind the
// collaborator interfaces below; vendor drivers plug in at the edges.
package peripheral

import "github.com/rs/zerolog"

// IdentifierScanner yields one scanned identifier per scan cycle, or
// ok=false when nothing was presented to the reader.
type IdentifierScanner interface {
	Scan() (id []byte, ok bool)
}

// Reading is one environment sample.
type Reading struct {
	Temperature float64
	Humidity    int
	Light       int
}

// EnvironmentSampler yields one reading per sample cycle, or ok=false on a
// sensor fault. A fault simply withholds production for that cycle; stale
// values on the master side are the intended outcome.
type EnvironmentSampler interface {
	Sample() (Reading, bool)
}

// AudioDriver is the audio module the work loop forwards decoded commands
// to. Driver responses are not interpreted.
type AudioDriver interface {
	Play(track uint8)
	VolumeUp()
	VolumeDown()
}

// NoScanner is the scanner used when no reader hardware is attached.
type NoScanner struct{}

func (NoScanner) Scan() ([]byte, bool) { return nil, false }

// NoSampler is the sampler used when no sensor hardware is attached.
type NoSampler struct{}

func (NoSampler) Sample() (Reading, bool) { return Reading{}, false }

// LogAudio renders audio commands to the log in place of a real module.
type LogAudio struct {
	Logger *zerolog.Logger
}

func (a LogAudio) Play(track uint8) {
	a.Logger.Info().Uint8("track", track).Msg("Audio: play")
}

func (a LogAudio) VolumeUp() {
	a.Logger.Info().Msg("Audio: volume up")
}

func (a LogAudio) VolumeDown() {
	a.Logger.Info().Msg("Audio: volume down")
}
