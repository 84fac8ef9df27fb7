package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie772tw/motolink/internal/packet"
)

func TestOutbound_DrainEmptyReturnsIdle(t *testing.T) {
	m := New()

	pkt := m.DrainPacket()

	assert.Equal(t, packet.KindIdle, packet.Decode(pkt).Kind)
}

func TestOutbound_FirstReadyWins(t *testing.T) {
	m := New()

	require.True(t, m.Offer(packet.NewIdentifier([]byte{0xDE, 0xAD, 0xBE, 0xEF})))
	// Slot occupied: an environment event may not claim it.
	require.False(t, m.Offer(packet.NewEnvironment(235, 22, 150)))

	e := packet.Decode(m.DrainPacket())
	require.Equal(t, packet.KindIdentifier, e.Kind)
	assert.Equal(t, "DEADBEEF", e.IdentifierString())

	// Drained: the next offer succeeds.
	assert.False(t, m.OutboundPending())
	assert.True(t, m.Offer(packet.NewEnvironment(235, 22, 150)))
}

func TestOutbound_DrainClearsSlot(t *testing.T) {
	m := New()
	m.Offer(packet.NewEnvironment(235, 22, 150))

	first := packet.Decode(m.DrainPacket())
	second := packet.Decode(m.DrainPacket())

	assert.Equal(t, packet.KindEnvironment, first.Kind)
	assert.Equal(t, packet.KindIdle, second.Kind)
}

// Two write transactions without an intervening drain leave only the second
// command pending.
func TestInbound_LastWriteWins(t *testing.T) {
	m := New()

	m.PutCommand(packet.CmdPlay, 3)
	m.PutCommand(packet.CmdVolumeUp, 0)

	cmd, ok := m.TakeCommand()
	require.True(t, ok)
	assert.Equal(t, packet.CmdVolumeUp, cmd.Code)

	_, ok = m.TakeCommand()
	assert.False(t, ok)
}

func TestInbound_TakeEmpty(t *testing.T) {
	m := New()

	_, ok := m.TakeCommand()

	assert.False(t, ok)
}

// The transaction context and the work loop hammer both channels at once;
// run with -race.
func TestConcurrentAccess(t *testing.T) {
	m := New()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.PutCommand(packet.CmdPlay, byte(i))
			m.DrainPacket()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Offer(packet.NewIdentifier([]byte{byte(i)}))
			m.TakeCommand()
		}
	}()
	wg.Wait()
}
