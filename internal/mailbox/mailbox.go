// Package mailbox implements the peripheral's single-slot buffering between
// the bus transaction context and the cooperative work loop. Two independent
// channels exist: one outbound packet slot and one inbound command slot.
// Every flag-plus-payload access is an atomic read-modify-write under one
// lock; the transaction context must never observe a half-written payload,
// and a command arriving between the loop's "not pending" check and the bus
// context's write must not be lost.
package mailbox

import (
	"sync"

	"github.com/eddie772tw/motolink/internal/packet"
)

// Command is one decoded write transaction. Param is meaningful only for
// packet.CmdPlay.
type Command struct {
	Code  byte
	Param byte
}

type Mailbox struct {
	mu sync.Mutex

	outFull bool
	out     [packet.Size]byte

	cmdPending bool
	cmd        Command
}

func New() *Mailbox {
	return &Mailbox{}
}

// Offer stores an outbound event if the slot is empty and reports whether
// it was accepted. First-ready-wins: an undrained event of either kind
// rejects the offer, and the producer retries on its next cycle. There is
// no overwrite on this channel.
func (m *Mailbox) Offer(e packet.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outFull {
		return false
	}
	m.out = packet.Encode(e)
	m.outFull = true
	return true
}

// OutboundPending reports whether an undrained event occupies the slot.
// Producers use it to skip expensive acquisition work for a cycle.
func (m *Mailbox) OutboundPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outFull
}

// DrainPacket atomically takes the pending outbound packet, or the idle
// packet when the slot is empty. Called from the bus transaction context;
// it performs no I/O and never blocks beyond the lock.
func (m *Mailbox) DrainPacket() [packet.Size]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.outFull {
		return packet.Encode(packet.Idle())
	}
	m.outFull = false
	return m.out
}

// PutCommand stores the inbound command, unconditionally replacing any
// unconsumed one. Last-write-wins: the overwritten command is never
// executed.
func (m *Mailbox) PutCommand(code, param byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmd = Command{Code: code, Param: param}
	m.cmdPending = true
}

// TakeCommand atomically consumes the pending command, if any.
func (m *Mailbox) TakeCommand() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cmdPending {
		return Command{}, false
	}
	m.cmdPending = false
	return m.cmd, true
}
