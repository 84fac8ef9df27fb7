// Package state holds the master's view of the peripheral: liveness,
// the last scanned identifier, and the last environment reading. The store
// is the only state shared between the polling loop and the HTTP layer.
package state

import "sync"

// NoIdentifier is the sentinel served while no identifier has been seen
// since the peripheral last came online.
const NoIdentifier = "N/A"

// bootTemperature marks a telemetry snapshot that has never been filled.
const bootTemperature = -999.0

// Telemetry is the last decoded environment reading. It is retained across
// offline periods; stale values keep being served until a fresh reading
// arrives.
type Telemetry struct {
	Temperature float64
	Humidity    int
	Light       int
}

// Snapshot is a point-in-time copy of everything the store knows.
// It contains no logic and no memory beyond current state.
type Snapshot struct {
	Online         bool
	LastIdentifier string
	Telemetry      Telemetry
}

// Store is safe for concurrent use.
type Store struct {
	mu             sync.RWMutex
	online         bool
	lastIdentifier string
	telemetry      Telemetry
}

func NewStore() *Store {
	return &Store{
		lastIdentifier: NoIdentifier,
		telemetry:      Telemetry{Temperature: bootTemperature},
	}
}

// MarkOnline records a successful transaction and reports whether this is
// an offline-to-online edge.
func (s *Store) MarkOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.online {
		return false
	}
	s.online = true
	return true
}

// MarkOffline records a failed transaction and reports whether this is an
// online-to-offline edge. The last identifier resets to the sentinel;
// telemetry is deliberately left stale.
func (s *Store) MarkOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIdentifier = NoIdentifier
	if !s.online {
		return false
	}
	s.online = false
	return true
}

func (s *Store) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

func (s *Store) SetIdentifier(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIdentifier = id
}

func (s *Store) SetTelemetry(t Telemetry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = t
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Online:         s.online,
		LastIdentifier: s.lastIdentifier,
		Telemetry:      s.telemetry,
	}
}
