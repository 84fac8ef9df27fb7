package poller

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie772tw/motolink/internal/bus/loopback"
	"github.com/eddie772tw/motolink/internal/mailbox"
	"github.com/eddie772tw/motolink/internal/packet"
	"github.com/eddie772tw/motolink/internal/peripheral"
	"github.com/eddie772tw/motolink/internal/state"
)

// scriptedTransport replays one response per poll.
type scriptedTransport struct {
	responses [][]byte
	errs      []error
	calls     int
}

func (t *scriptedTransport) ReadTransaction(n int) ([]byte, error) {
	i := t.calls
	t.calls++
	var err error
	if i < len(t.errs) {
		err = t.errs[i]
	}
	if i < len(t.responses) {
		return t.responses[i], err
	}
	return nil, err
}

func (t *scriptedTransport) WriteTransaction(payload []byte) error { return nil }

type countingPulser struct {
	pulses []string
}

func (p *countingPulser) Pulse(channel string) { p.pulses = append(p.pulses, channel) }

func newTestPoller(t *testing.T, tr *scriptedTransport, logger *zerolog.Logger) (*Poller, *state.Store, *countingPulser) {
	t.Helper()
	store := state.NewStore()
	pulser := &countingPulser{}
	p, err := New(
		Config{Interval: 500 * time.Millisecond, AckChannel: "B"},
		tr, store, pulser, clockwork.NewFakeClock(), logger,
	)
	require.NoError(t, err)
	return p, store, pulser
}

func idlePacket() []byte {
	pkt := packet.Encode(packet.Idle())
	return pkt[:]
}

func TestPollOnce_TenBytesMeansOnline(t *testing.T) {
	nop := zerolog.Nop()
	tr := &scriptedTransport{responses: [][]byte{idlePacket()}}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()

	assert.True(t, store.Online())
}

// Liveness follows byte count alone: an idle flag inside a full-length
// response still counts as online.
func TestPollOnce_IdleFlagIsNotOffline(t *testing.T) {
	nop := zerolog.Nop()
	tr := &scriptedTransport{responses: [][]byte{make([]byte, packet.Size)}}
	p, store, pulser := newTestPoller(t, tr, &nop)

	p.PollOnce()

	assert.True(t, store.Online())
	assert.Empty(t, pulser.pulses)
}

func TestPollOnce_ShortReadMeansOffline(t *testing.T) {
	nop := zerolog.Nop()
	tr := &scriptedTransport{responses: [][]byte{
		idlePacket(),
		idlePacket()[:9],
	}}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()
	require.True(t, store.Online())
	p.PollOnce()

	assert.False(t, store.Online())
}

func TestPollOnce_TransportErrorMeansOffline(t *testing.T) {
	nop := zerolog.Nop()
	tr := &scriptedTransport{
		responses: [][]byte{nil},
		errs:      []error{errors.New("port gone")},
	}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()

	assert.False(t, store.Online())
}

func TestPollOnce_IdentifierStored(t *testing.T) {
	nop := zerolog.Nop()
	pkt := packet.Encode(packet.NewIdentifier([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	tr := &scriptedTransport{responses: [][]byte{pkt[:]}}
	p, store, pulser := newTestPoller(t, tr, &nop)

	p.PollOnce()

	assert.Equal(t, "DEADBEEF", store.Snapshot().LastIdentifier)
	assert.Equal(t, []string{"B"}, pulser.pulses)
}

func TestPollOnce_EnvironmentStored(t *testing.T) {
	nop := zerolog.Nop()
	pkt := packet.Encode(packet.NewEnvironment(235, 22, 150))
	tr := &scriptedTransport{responses: [][]byte{pkt[:]}}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()

	tel := store.Snapshot().Telemetry
	assert.InDelta(t, 23.5, tel.Temperature, 0.001)
	assert.Equal(t, 22, tel.Humidity)
	assert.Equal(t, 150, tel.Light)
}

func TestPollOnce_UnrecognizedFlagIsNoop(t *testing.T) {
	nop := zerolog.Nop()
	buf := make([]byte, packet.Size)
	buf[0] = 0x7E
	tr := &scriptedTransport{responses: [][]byte{buf}}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()

	snap := store.Snapshot()
	assert.True(t, snap.Online)
	assert.Equal(t, state.NoIdentifier, snap.LastIdentifier)
}

func TestPollOnce_OfflineResetsIdentifierKeepsTelemetry(t *testing.T) {
	nop := zerolog.Nop()
	id := packet.Encode(packet.NewIdentifier([]byte{0xCA, 0xFE, 0x00, 0x01}))
	env := packet.Encode(packet.NewEnvironment(235, 22, 150))
	tr := &scriptedTransport{responses: [][]byte{id[:], env[:], nil}}
	p, store, _ := newTestPoller(t, tr, &nop)

	p.PollOnce()
	p.PollOnce()
	p.PollOnce()

	snap := store.Snapshot()
	assert.False(t, snap.Online)
	assert.Equal(t, state.NoIdentifier, snap.LastIdentifier)
	assert.InDelta(t, 23.5, snap.Telemetry.Temperature, 0.001)
}

// Three consecutive failures then one success must log exactly one offline
// edge and one online edge.
func TestTransitionsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tr := &scriptedTransport{responses: [][]byte{
		idlePacket(),
		nil, nil, nil,
		idlePacket(),
	}}
	p, store, _ := newTestPoller(t, tr, &logger)

	for i := 0; i < 5; i++ {
		p.PollOnce()
	}

	assert.True(t, store.Online())
	assert.Equal(t, 1, strings.Count(buf.String(), "Peripheral offline"))
	assert.Equal(t, 2, strings.Count(buf.String(), "Peripheral online"))
}

// End-to-end over the loopback bus against a real mailbox and handler.
func TestPoller_LoopbackExchange(t *testing.T) {
	nop := zerolog.Nop()
	box := mailbox.New()
	handler := peripheral.NewHandler(box, &nop)
	lb := loopback.New(handler)

	store := state.NewStore()
	p, err := New(
		Config{Interval: 500 * time.Millisecond, AckChannel: "B"},
		lb, store, nil, clockwork.NewFakeClock(), &nop,
	)
	require.NoError(t, err)

	box.Offer(packet.NewIdentifier([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	p.PollOnce()
	require.Equal(t, "DEADBEEF", store.Snapshot().LastIdentifier)
	require.True(t, store.Online())

	lb.SetFailing(true)
	p.PollOnce()
	snap := store.Snapshot()
	assert.False(t, snap.Online)
	assert.Equal(t, state.NoIdentifier, snap.LastIdentifier)
}
