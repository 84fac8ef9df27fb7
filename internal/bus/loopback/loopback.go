// Package loopback connects the master transport directly to a peripheral
// handler in memory. It backs the simulator and the protocol tests.
package loopback

import (
	"sync"

	"github.com/eddie772tw/motolink/internal/bus"
)

// Bus implements bus.Transport against a directly-attached handler.
type Bus struct {
	mu      sync.Mutex
	handler bus.Handler
	failing bool
}

func New(h bus.Handler) *Bus {
	return &Bus{handler: h}
}

// SetFailing simulates the peripheral dropping off the bus: reads return
// zero bytes and writes go nowhere.
func (b *Bus) SetFailing(failing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = failing
}

func (b *Bus) ReadTransaction(n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return nil, nil
	}
	return b.handler.HandleRead(n), nil
}

func (b *Bus) WriteTransaction(payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return nil
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	b.handler.HandleWrite(p)
	return nil
}
