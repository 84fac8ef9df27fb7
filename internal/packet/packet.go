// Package packet defines the fixed-size wire format exchanged between the
// master and the peripheral: the 10-byte telemetry/event packet returned on
// every read transaction, and the single-byte command codes carried by write
// transactions.
package packet

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Size is the exact byte count of every read-transaction response.
// Any other count is a communication failure, not a packet.
const Size = 10

// Flag values occupy byte 0 of a packet. These are wire-locked and MUST NOT
// be reordered; unknown values are reserved for future peripheral firmware.
const (
	FlagIdle        byte = 0x00
	FlagIdentifier  byte = 0x01
	FlagEnvironment byte = 0x02
)

// IdentifierLen is the number of identifier bytes carried in an identifier
// packet. Shorter identifiers are zero-padded on encode.
const IdentifierLen = 4

// Command codes (first byte of a write transaction).
const (
	CmdPlay       byte = 'P'
	CmdVolumeUp   byte = '+'
	CmdVolumeDown byte = '-'
)

// Kind classifies a decoded packet.
type Kind uint8

const (
	KindIdle Kind = iota
	KindIdentifier
	KindEnvironment
	KindUnrecognized
)

// Event is the structured form of one packet.
//
// Temperature is in tenths of a degree (235 = 23.5 degrees); Light is the
// raw sensor reading. Both travel as big-endian signed 16-bit values.
type Event struct {
	Kind Kind
	Flag byte

	Identifier [IdentifierLen]byte

	Temperature int16
	Humidity    uint8
	Light       int16
}

// Idle returns the no-event packet.
func Idle() Event {
	return Event{Kind: KindIdle, Flag: FlagIdle}
}

// NewIdentifier builds an identifier event from a scanned id, copying at
// most IdentifierLen bytes and zero-padding the rest.
func NewIdentifier(id []byte) Event {
	e := Event{Kind: KindIdentifier, Flag: FlagIdentifier}
	copy(e.Identifier[:], id)
	return e
}

// NewEnvironment builds an environment event from one sensor reading.
func NewEnvironment(tempTenths int16, humidity uint8, light int16) Event {
	return Event{
		Kind:        KindEnvironment,
		Flag:        FlagEnvironment,
		Temperature: tempTenths,
		Humidity:    humidity,
		Light:       light,
	}
}

// Encode converts an event into its wire form. Encoding is total for the
// defined kinds: it always yields exactly Size bytes with unused payload
// bytes zeroed.
func Encode(e Event) [Size]byte {
	var buf [Size]byte
	buf[0] = e.Flag

	switch e.Kind {
	case KindIdentifier:
		copy(buf[1:1+IdentifierLen], e.Identifier[:])
	case KindEnvironment:
		binary.BigEndian.PutUint16(buf[1:3], uint16(e.Temperature))
		buf[3] = e.Humidity
		binary.BigEndian.PutUint16(buf[4:6], uint16(e.Light))
	}
	return buf
}

// Decode converts a wire packet into an event. Decoding is total over all
// 256 flag values: reserved flags yield KindUnrecognized so callers can
// log-and-ignore instead of failing. Future firmware may add event kinds
// the master does not yet understand.
func Decode(buf [Size]byte) Event {
	flag := buf[0]

	switch flag {
	case FlagIdle:
		return Idle()
	case FlagIdentifier:
		e := Event{Kind: KindIdentifier, Flag: flag}
		copy(e.Identifier[:], buf[1:1+IdentifierLen])
		return e
	case FlagEnvironment:
		return Event{
			Kind:        KindEnvironment,
			Flag:        flag,
			Temperature: int16(binary.BigEndian.Uint16(buf[1:3])),
			Humidity:    buf[3],
			Light:       int16(binary.BigEndian.Uint16(buf[4:6])),
		}
	default:
		return Event{Kind: KindUnrecognized, Flag: flag}
	}
}

// IdentifierString renders the identifier bytes as uppercase hex, the form
// stored and served by the master.
func (e Event) IdentifierString() string {
	return strings.ToUpper(hex.EncodeToString(e.Identifier[:]))
}

// TemperatureC converts the wire temperature to degrees with one decimal.
func (e Event) TemperatureC() float64 {
	return float64(e.Temperature) / 10
}
