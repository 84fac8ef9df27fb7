package indicator

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// tickResolution bounds how late a toggle or pulse expiry can fire.
const tickResolution = 25 * time.Millisecond

// PulseDuration is how long an acknowledgment pulse stays lit.
const PulseDuration = 10 * time.Millisecond

// Blinker is the cooperative output state machine. At most one blink
// pattern is active at any time: starting a blink or forcing a solid level
// always clears the previous one first. Safe for concurrent use; the HTTP layer
// and the master loop both call in.
type Blinker struct {
	mu       sync.Mutex
	driver   Driver
	clock    clockwork.Clock
	channels []string

	active     bool
	channel    string
	interval   time.Duration
	lastToggle time.Time
	level      bool

	pulseChannel string
	pulseUntil   time.Time
}

// New creates a blink engine over the given channels. The channel list is
// what StopBlink clears to dark.
func New(driver Driver, clock clockwork.Clock, channels []string) *Blinker {
	return &Blinker{
		driver:   driver,
		clock:    clock,
		channels: channels,
	}
}

// StartBlink activates a blink pattern on one channel, deactivating any
// previous one. The first toggle fires on the next tick.
func (b *Blinker) StartBlink(channel string, interval time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active && b.channel != channel {
		b.driver.SetLevel(b.channel, false)
	}
	b.active = true
	b.channel = channel
	b.interval = interval
	b.lastToggle = time.Time{}
	b.level = false
}

// StopBlink deactivates any blink and darkens every channel.
func (b *Blinker) StopBlink() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active = false
	for _, ch := range b.channels {
		b.driver.SetLevel(ch, false)
	}
}

// SetSolid forces a level on one channel. Mutually exclusive with blinking:
// any active blink is deactivated first.
func (b *Blinker) SetSolid(channel string, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active = false
	b.driver.SetLevel(channel, on)
}

// Pulse lights a channel for PulseDuration as a visual acknowledgment.
// It does not claim the blink slot.
func (b *Blinker) Pulse(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.driver.SetLevel(channel, true)
	b.pulseChannel = channel
	b.pulseUntil = b.clock.Now().Add(PulseDuration)
}

// Blinking reports whether a blink pattern is active, and on which channel.
func (b *Blinker) Blinking() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.channel, b.active
}

// Tick advances the state machine to now: expire the pulse, then toggle if
// the interval elapsed.
func (b *Blinker) Tick(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pulseChannel != "" && !now.Before(b.pulseUntil) {
		b.driver.SetLevel(b.pulseChannel, false)
		b.pulseChannel = ""
	}

	if !b.active {
		return
	}
	if !b.lastToggle.IsZero() && now.Sub(b.lastToggle) < b.interval {
		return
	}
	b.level = !b.level
	b.driver.Toggle(b.channel)
	b.lastToggle = now
}

// Run drives Tick until the context is cancelled.
func (b *Blinker) Run(ctx context.Context) {
	ticker := b.clock.NewTicker(tickResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			b.Tick(now)
		}
	}
}
