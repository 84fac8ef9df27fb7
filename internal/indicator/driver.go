// Package indicator drives named status output channels and hosts the
// non-blocking blink engine shared by the master's loop and HTTP layer.
package indicator

import "github.com/rs/zerolog"

// Driver is the hardware-facing status output. Implementations map channel
// names ("G", "B") onto whatever the platform provides.
type Driver interface {
	SetLevel(channel string, on bool)
	Toggle(channel string)
}

// LogDriver is the default driver: it renders channel changes to the log.
// Real GPIO drivers replace it where hardware exists.
type LogDriver struct {
	logger *zerolog.Logger
	levels map[string]bool
}

func NewLogDriver(logger *zerolog.Logger) *LogDriver {
	return &LogDriver{logger: logger, levels: make(map[string]bool)}
}

func (d *LogDriver) SetLevel(channel string, on bool) {
	d.levels[channel] = on
	d.logger.Debug().Str("channel", channel).Bool("on", on).Msg("Indicator level")
}

func (d *LogDriver) Toggle(channel string) {
	d.SetLevel(channel, !d.levels[channel])
}
