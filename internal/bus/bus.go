// Package bus defines the transaction contracts both controllers share.
// The physical bus is half-duplex and master-initiated: the peripheral only
// ever answers.
package bus

// Transport is the master's side of the bus.
//
// ReadTransaction requests exactly n bytes from the peripheral and returns
// whatever arrived before the bus timeout; a short or empty result is a
// normal outcome (the caller applies the byte-count liveness rule), while a
// non-nil error signals a port-level failure. Both are treated as the
// peripheral being offline.
//
// WriteTransaction delivers a command payload fire-and-forget. No
// acknowledgment exists at this layer.
type Transport interface {
	ReadTransaction(n int) ([]byte, error)
	WriteTransaction(payload []byte) error
}

// Handler is the peripheral's side, invoked by the transport layer whenever
// the master initiates a transaction. Implementations run on the bus
// listener goroutine and must respond from already-buffered state only:
// no sensor reads, no audio commands, no blocking.
type Handler interface {
	// HandleRead returns the response for a read transaction requesting n
	// bytes.
	HandleRead(n int) []byte
	// HandleWrite receives a write transaction's payload, which may be
	// empty on a malformed delivery.
	HandleWrite(payload []byte)
}
