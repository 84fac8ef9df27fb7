package serialbus

import (
	"context"
	"errors"
	"io"

	"github.com/goburrow/serial"
	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/bus"
)

// Listener owns the peripheral end of the line. It parses master-initiated
// frames, skips traffic addressed to other peripherals, and drives a
// bus.Handler. Read responses come from the handler's buffered state only,
// so the stretch budget is never at risk here.
type Listener struct {
	port    io.ReadWriteCloser
	address byte
	handler bus.Handler
	logger  *zerolog.Logger
}

// NewListener opens the serial device and attaches the transaction handler.
func NewListener(cfg Config, handler bus.Handler, logger *zerolog.Logger) (*Listener, error) {
	if cfg.Device == "" {
		return nil, errors.New("serialbus: device required")
	}
	if handler == nil {
		return nil, errors.New("serialbus: handler required")
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Listener{
		port:    port,
		address: cfg.Peripheral,
		handler: handler,
		logger:  logger,
	}, nil
}

func (l *Listener) Close() error {
	if l == nil || l.port == nil {
		return nil
	}
	return l.port.Close()
}

// Run services frames until the context is cancelled. Port timeouts bound
// each read so cancellation is observed between frames.
func (l *Listener) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		hdr, ok, err := l.readHeader()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		addr, op, length := hdr[1], hdr[2], int(hdr[3])

		switch op {
		case opRead:
			if addr != l.address {
				// Another peripheral answers; nothing to consume.
				continue
			}
			resp := l.handler.HandleRead(length)
			if _, err := l.port.Write(resp); err != nil {
				l.logger.Warn().Err(err).Msg("Read response write failed")
			}

		case opWrite:
			payload, err := l.readPayload(length)
			if err != nil {
				return err
			}
			if addr != l.address {
				continue
			}
			l.handler.HandleWrite(payload)

		default:
			l.logger.Debug().
				Uint8("op", op).
				Msg("Unknown bus operation skipped")
		}
	}
}

// readHeader hunts for the start marker and then completes the header.
// Returns ok=false on a timeout or a resync skip.
func (l *Listener) readHeader() ([headerSize]byte, bool, error) {
	var hdr [headerSize]byte

	// Byte-at-a-time until the start marker lines up.
	for {
		var b [1]byte
		_, err := l.port.Read(b[:])
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				return hdr, false, nil
			}
			return hdr, false, err
		}
		if b[0] == frameStart {
			hdr[0] = b[0]
			break
		}
	}

	got := 1
	for got < headerSize {
		r, err := l.port.Read(hdr[got:])
		got += r
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				return hdr, false, nil
			}
			return hdr, false, err
		}
	}
	return hdr, true, nil
}

// readPayload collects a write transaction's payload. A timeout mid-payload
// delivers the partial bytes; the handler's decode rules take it from there.
func (l *Listener) readPayload(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		r, err := l.port.Read(buf[got:])
		got += r
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				return buf[:got], nil
			}
			return buf[:got], err
		}
	}
	return buf, nil
}
