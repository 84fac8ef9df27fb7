package serialbus

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// Config is minimal transport config shared by both ends of the line.
type Config struct {
	// Device is the serial device, e.g. /dev/ttyUSB0.
	Device   string
	BaudRate int
	// Peripheral is the bus address of the addressed controller.
	Peripheral byte
	// Timeout bounds every port read. It must stay below the poll
	// interval so a dead peripheral cannot stall the next tick.
	Timeout time.Duration
}

// Master implements bus.Transport. One transaction at a time; the line is
// half-duplex and the poller never overlaps with the dispatcher mid-frame.
type Master struct {
	mu         sync.Mutex
	port       io.ReadWriteCloser
	peripheral byte
}

// NewMaster opens the serial device and returns a connected transport.
func NewMaster(cfg Config) (*Master, error) {
	if cfg.Device == "" {
		return nil, errors.New("serialbus: device required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("serialbus: timeout must be > 0")
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

	return &Master{port: port, peripheral: cfg.Peripheral}, nil
}

func (m *Master) Close() error {
	if m == nil || m.port == nil {
		return nil
	}
	return m.port.Close()
}

// ReadTransaction requests n bytes and collects whatever arrives before the
// port timeout. A short result is returned with a nil error: the byte-count
// rule belongs to the caller, not the transport.
func (m *Master) ReadTransaction(n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hdr := [headerSize]byte{frameStart, m.peripheral, opRead, byte(n)}
	if _, err := m.port.Write(hdr[:]); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	got := 0
	for got < n {
		r, err := m.port.Read(buf[got:])
		got += r
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				return buf[:got], nil
			}
			return buf[:got], err
		}
	}
	return buf[:got], nil
}

// WriteTransaction frames and sends a command payload. Fire-and-forget: a
// completed port write is the only notion of success.
func (m *Master) WriteTransaction(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := make([]byte, 0, headerSize+len(payload))
	frame = append(frame, frameStart, m.peripheral, opWrite, byte(len(payload)))
	frame = append(frame, payload...)

	_, err := m.port.Write(frame)
	return err
}
