package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_StartsOfflineWithSentinel(t *testing.T) {
	s := NewStore()

	snap := s.Snapshot()

	assert.False(t, snap.Online)
	assert.Equal(t, NoIdentifier, snap.LastIdentifier)
}

func TestStore_EdgesReportedOnce(t *testing.T) {
	s := NewStore()

	assert.True(t, s.MarkOnline())
	assert.False(t, s.MarkOnline())
	assert.True(t, s.MarkOffline())
	assert.False(t, s.MarkOffline())
	assert.True(t, s.MarkOnline())
}

func TestStore_OfflineResetsIdentifierOnly(t *testing.T) {
	s := NewStore()
	s.MarkOnline()
	s.SetIdentifier("DEADBEEF")
	s.SetTelemetry(Telemetry{Temperature: 23.5, Humidity: 22, Light: 150})

	s.MarkOffline()

	snap := s.Snapshot()
	assert.Equal(t, NoIdentifier, snap.LastIdentifier)
	assert.InDelta(t, 23.5, snap.Telemetry.Temperature, 0.001)
	assert.Equal(t, 22, snap.Telemetry.Humidity)
	assert.Equal(t, 150, snap.Telemetry.Light)
}

// Repeated failures keep clearing the identifier even without an edge.
func TestStore_IdentifierStaysClearWhileOffline(t *testing.T) {
	s := NewStore()
	s.MarkOnline()
	s.SetIdentifier("CAFE0001")

	s.MarkOffline()
	s.MarkOffline()

	assert.Equal(t, NoIdentifier, s.Snapshot().LastIdentifier)
}
