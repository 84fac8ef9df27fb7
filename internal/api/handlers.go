package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultBlinkInterval matches the firmware's debug-page blink cadence.
const defaultBlinkInterval = 250 * time.Millisecond

type sensorsResponse struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Light       int     `json:"light"`
	Card        string  `json:"card"`
	Peripheral  string  `json:"peripheral"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) HandleSensors(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	status := "Offline"
	if snap.Online {
		status = "Online"
	}

	s.respondJSON(w, http.StatusOK, sensorsResponse{
		Temperature: snap.Telemetry.Temperature,
		Humidity:    snap.Telemetry.Humidity,
		Light:       snap.Telemetry.Light,
		Card:        snap.LastIdentifier,
		Peripheral:  status,
	})
}

// HandlePlay triggers playback. Dispatch is fire-and-forget, so the reply
// is 202 regardless of liveness; /api/sensors is where state lives.
func (s *Server) HandlePlay(w http.ResponseWriter, r *http.Request) {
	track, err := strconv.Atoi(r.URL.Query().Get("track"))
	if err != nil || track < 1 || track > 255 {
		s.respondError(w, http.StatusBadRequest, "invalid track number")
		return
	}

	s.dispatcher.PlayTrack(uint8(track))
	s.respondJSON(w, http.StatusAccepted, map[string]int{"track": track})
}

func (s *Server) HandleVolumeUp(w http.ResponseWriter, r *http.Request) {
	s.dispatcher.VolumeUp()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) HandleVolumeDown(w http.ResponseWriter, r *http.Request) {
	s.dispatcher.VolumeDown()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) HandleBlink(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	interval := defaultBlinkInterval
	if raw := r.URL.Query().Get("interval_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid interval_ms")
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	s.blinker.StartBlink(channel, interval)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) HandleStopBlink(w http.ResponseWriter, r *http.Request) {
	s.blinker.StopBlink()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) HandleSolid(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	on, err := strconv.ParseBool(r.URL.Query().Get("on"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid on value")
		return
	}

	s.blinker.SetSolid(channel, on)
	w.WriteHeader(http.StatusAccepted)
}

// ---- respond helpers ----

func (s *Server) respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn().Err(err).Msg("Response encode failed")
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, msg string) {
	s.respondJSON(w, code, map[string]string{"error": msg})
}
