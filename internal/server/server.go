package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"tidetrap/internal/model"
	"tidetrap/internal/recorder"
	"tidetrap/internal/sim"
)

// Server exposes the resumable harvesting cycle over HTTP. A session walks
// the tide series and pauses whenever the tide closes over a non-empty
// trap; clients watch state events on /ws and answer each pause with a
// POST to /api/session/harvest. Invalid decisions get a 400 and the
// session stays paused, replacing the original's blocking retry loop.
type Server struct {
	Router *http.ServeMux

	hub   *Hub
	sim   *sim.Simulator
	rec   recorder.Recorder
	tides []float64

	mu      sync.Mutex
	session *session
}

type session struct {
	ID        string
	Tides     []float64
	State     *model.SimState
	Completed bool
}

// Event is the wire shape of every WebSocket broadcast.
type Event struct {
	Type      string `json:"type"` // "pause", "done", "state"
	Timestamp string `json:"ts"`
	Payload   any    `json:"payload,omitempty"`
}

// Snapshot is the session view returned by the API and carried in events.
type Snapshot struct {
	SessionID       string  `json:"session_id"`
	Hour            int     `json:"hour"`
	CaughtFish      float64 `json:"caught_fish"`
	FreeFish        float64 `json:"free_fish"`
	TotalHarvested  float64 `json:"total_harvested"`
	HarvestEvents   int     `json:"harvest_events"`
	AwaitingHarvest bool    `json:"awaiting_harvest"`
	Completed       bool    `json:"completed"`
}

// NewServer wires the HTTP routes. The hub must be running already.
func NewServer(hub *Hub, simulator *sim.Simulator, tides []float64, rec recorder.Recorder) *Server {
	s := &Server{
		Router: http.NewServeMux(),
		hub:    hub,
		sim:    simulator,
		rec:    rec,
		tides:  tides,
	}
	s.Router.HandleFunc("/healthz", s.handleHealth)
	s.Router.HandleFunc("/ws", s.handleWS)
	s.Router.HandleFunc("/api/session/start", s.handleStart)
	s.Router.HandleFunc("/api/session/harvest", s.handleHarvest)
	s.Router.HandleFunc("/api/session", s.handleState)
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	serveWS(s.hub, w, r)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.sim.RunCycle(nil, 0, s.tides)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.session = &session{
		ID:        uuid.NewString(),
		Tides:     s.tides,
		State:     res.State,
		Completed: res.Completed,
	}
	log.Printf("[INFO] harvesting session %s started, paused at hour %d", s.session.ID, res.State.Hours())

	snap := s.snapshotLocked()
	s.broadcastLocked()
	writeJSON(w, snap)
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Harvest int `json:"harvest"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		http.Error(w, "no active session", http.StatusConflict)
		return
	}
	if s.session.Completed {
		http.Error(w, "session already completed", http.StatusConflict)
		return
	}

	hour := s.session.State.Hours()
	res, err := s.sim.RunCycle(s.session.State, req.Harvest, s.session.Tides)
	if err != nil {
		var ihe *sim.InvalidHarvestError
		if errors.As(err, &ihe) {
			http.Error(w, ihe.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.session.State = res.State
	s.session.Completed = res.Completed

	if err := s.rec.RecordHarvest(&recorder.HarvestEvent{
		RunID: s.session.ID,
		Hour:  hour,
		Size:  float64(req.Harvest),
		Total: res.State.TotalHarvested(),
	}); err != nil {
		log.Printf("[ERROR] record harvest: %v", err)
	}

	snap := s.snapshotLocked()
	s.broadcastLocked()
	writeJSON(w, snap)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}
	writeJSON(w, s.snapshotLocked())
}

func (s *Server) snapshotLocked() Snapshot {
	st := s.session.State
	return Snapshot{
		SessionID:       s.session.ID,
		Hour:            st.Hours(),
		CaughtFish:      st.CaughtFish,
		FreeFish:        st.FreeFish,
		TotalHarvested:  st.TotalHarvested(),
		HarvestEvents:   len(st.HarvestSizes),
		AwaitingHarvest: !s.session.Completed,
		Completed:       s.session.Completed,
	}
}

func (s *Server) broadcastLocked() {
	typ := "pause"
	if s.session.Completed {
		typ = "done"
	}
	s.hub.BroadcastJSON(Event{
		Type:      typ,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   s.snapshotLocked(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
