// Package serialbus carries the bus transaction semantics over a shared,
// addressed, half-duplex serial line. Every exchange is master-initiated:
// a 4-byte header names the peripheral and the operation, a write's payload
// follows the header, and a read's response is raw bytes with no header.
package serialbus

// Frame header layout:
//
//	byte 0: frameStart (resync marker)
//	byte 1: peripheral address
//	byte 2: operation
//	byte 3: length, requested byte count for reads, payload size for writes
const (
	frameStart byte = 0xA5
	opRead     byte = 0x01
	opWrite    byte = 0x02

	headerSize = 4
)
