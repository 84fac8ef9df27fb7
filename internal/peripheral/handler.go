package peripheral

import (
	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/mailbox"
	"github.com/eddie772tw/motolink/internal/packet"
)

// Handler services master-initiated transactions. It runs on the bus
// listener goroutine, concurrently with the work loop; the mailbox is the
// only state the two share. Responses are buffered state only; nothing
// here blocks or touches a sensor.
type Handler struct {
	box    *mailbox.Mailbox
	logger *zerolog.Logger

	// lastPlayParam is only touched on the listener goroutine.
	lastPlayParam byte
}

func NewHandler(box *mailbox.Mailbox, logger *zerolog.Logger) *Handler {
	return &Handler{box: box, logger: logger}
}

// HandleRead answers a read transaction with the pending outbound packet,
// or the idle packet when the slot is empty.
func (h *Handler) HandleRead(n int) []byte {
	pkt := h.box.DrainPacket()
	if n < packet.Size {
		return pkt[:n]
	}
	return pkt[:]
}

// HandleWrite decodes a write transaction into the pending-command slot.
// Zero-byte deliveries are dropped with no state change. A Play command
// missing its parameter byte runs with the last received track number.
func (h *Handler) HandleWrite(payload []byte) {
	if len(payload) == 0 {
		return
	}

	code := payload[0]
	var param byte

	if code == packet.CmdPlay {
		if len(payload) > 1 {
			h.lastPlayParam = payload[1]
		}
		param = h.lastPlayParam
	}

	h.box.PutCommand(code, param)
	h.logger.Debug().
		Str("command", string(code)).
		Uint8("param", param).
		Msg("Command received")
}
