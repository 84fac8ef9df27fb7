package serialbus

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goburrow/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort serves scripted bytes and then times out, like a quiet line.
type fakePort struct {
	reads   []byte
	readErr error
	written bytes.Buffer
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		return 0, serial.ErrTimeout
	}
	n := copy(b, p.reads)
	p.reads = p.reads[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *fakePort) Close() error { return nil }

func TestReadTransaction_FullResponse(t *testing.T) {
	port := &fakePort{reads: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	m := &Master{port: port, peripheral: 8}

	got, err := m.ReadTransaction(10)

	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, got)
	assert.Equal(t, []byte{frameStart, 8, opRead, 10}, port.written.Bytes())
}

// A timed-out read yields the partial bytes with no error; the byte-count
// rule belongs to the poller.
func TestReadTransaction_ShortOnTimeout(t *testing.T) {
	port := &fakePort{reads: []byte{1, 2, 3}}
	m := &Master{port: port, peripheral: 8}

	got, err := m.ReadTransaction(10)

	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestReadTransaction_PortError(t *testing.T) {
	port := &fakePort{readErr: errors.New("port gone")}
	m := &Master{port: port, peripheral: 8}

	_, err := m.ReadTransaction(10)

	assert.Error(t, err)
}

func TestWriteTransaction_Framing(t *testing.T) {
	port := &fakePort{}
	m := &Master{port: port, peripheral: 8}

	err := m.WriteTransaction([]byte{'P', 5})

	require.NoError(t, err)
	assert.Equal(t, []byte{frameStart, 8, opWrite, 2, 'P', 5}, port.written.Bytes())
}

func TestNewMaster_Validation(t *testing.T) {
	_, err := NewMaster(Config{})
	assert.Error(t, err)
}
