// Package ws serves the live preview: LED-ordered frames and diagnostics
// pushed to websocket clients, plus a control socket for layout edits.
// Layout edits regenerate the mapping table under the write lock, so
// readers only ever observe complete tables.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/example/ledmapper/internal/diagnostics"
	"github.com/example/ledmapper/internal/export"
	"github.com/example/ledmapper/internal/layout"
	"github.com/example/ledmapper/internal/pattern"
	"github.com/example/ledmapper/internal/wiringtest"
)

type State struct {
	mu  sync.RWMutex
	pat *pattern.Pattern
	FPS int

	frameIdx  int
	frameID   uint64
	startTime time.Time

	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool

	testRunner *wiringtest.Runner
}

func NewState(p *pattern.Pattern, fps int) *State {
	return &State{
		pat:         p,
		FPS:         fps,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

// RunPreviewLoop steps through the pattern's frames at the configured rate,
// packing each into hardware order and broadcasting it. A pending wiring
// test takes over the stream until it completes.
func (s *State) RunPreviewLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, s.FPS)))
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		var buf []byte
		meta := &s.pat.Metadata

		if s.testRunner != nil {
			buf = make([]byte, len(meta.Mapping)*3)
			if !s.testRunner.Step(meta.Mapping, meta.Width, meta.Height, buf) {
				s.testRunner = nil
				s.pushDiagLocked(diag.Diagnostic{Severity: diag.Info, Code: "TEST.DONE", Summary: "Wiring test complete"})
				buf = nil
			}
		}
		if buf == nil && len(s.pat.Frames) > 0 {
			f := &s.pat.Frames[s.frameIdx%len(s.pat.Frames)]
			s.frameIdx++
			packed, err := export.PackFrame(f, meta)
			if err != nil {
				s.pushDiagLocked(diag.FromError(err))
			} else {
				buf = packed
			}
		}
		s.frameID++
		s.mu.Unlock()

		if buf != nil {
			s.broadcastFrame(buf)
		}
	}
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.sendTopology(conn)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
		s.sendTopology(conn)
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"leds":     s.pat.Metadata.LEDCount(),
		"grid_w":   s.pat.Metadata.Width,
		"grid_h":   s.pat.Metadata.Height,
		"layout":   s.pat.Metadata.Type,
		"fps":      s.FPS,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type resizeMsg struct {
	W int `json:"w"`
	H int `json:"h"`
}

type controlMsg struct {
	Layout  *layout.Config `json:"layout,omitempty"`
	Resize  *resizeMsg     `json:"resize,omitempty"`
	FPS     *int           `json:"fps,omitempty"`
	RunTest string         `json:"run_test,omitempty"`
}

// applyControl is the single writer for layout and grid edits; mapping
// regeneration happens here, never in a reader.
func (s *State) applyControl(msg controlMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Layout != nil {
		if err := s.pat.SetLayout(*msg.Layout); err != nil {
			log.Warn().Err(err).Msg("layout edit rejected")
			s.pushDiagLocked(diag.FromError(err))
		} else {
			s.pushDiagLocked(diag.Diagnostic{
				Severity: diag.Info, Code: "MAP.REBUILT", Summary: "Mapping table rebuilt",
				Evidence: map[string]any{"layout": s.pat.Metadata.Type, "leds": s.pat.Metadata.LEDCount()},
			})
		}
	}
	if msg.Resize != nil {
		if err := s.pat.Resize(msg.Resize.W, msg.Resize.H); err != nil {
			log.Warn().Err(err).Msg("grid resize rejected")
			s.pushDiagLocked(diag.FromError(err))
		}
	}
	if msg.FPS != nil && *msg.FPS > 0 {
		s.FPS = *msg.FPS
	}
	if msg.RunTest != "" {
		switch wiringtest.Kind(msg.RunTest) {
		case wiringtest.IndexSweep, wiringtest.RowSweep, wiringtest.Corners:
			s.testRunner = wiringtest.NewRunner(wiringtest.Plan{Kind: wiringtest.Kind(msg.RunTest)})
			s.pushDiagLocked(diag.Diagnostic{Severity: diag.Info, Code: "TEST.RUNNING", Summary: "Running wiring test", Detail: msg.RunTest})
		default:
			s.pushDiagLocked(diag.Diagnostic{
				Severity: diag.Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
				Evidence: map[string]any{"name": msg.RunTest},
			})
		}
	}
}

// sendTopology tells a client how to interpret the frame stream: grid
// shape, layout type, and the mapping table itself.
func (s *State) sendTopology(conn *websocket.Conn) {
	s.mu.RLock()
	m := &s.pat.Metadata
	msg := map[string]any{
		"type":    "topology",
		"grid_w":  m.Width,
		"grid_h":  m.Height,
		"layout":  m.Type,
		"leds":    m.LEDCount(),
		"mapping": m.Mapping,
	}
	s.mu.RUnlock()
	_ = conn.WriteJSON(msg)
}

func (s *State) broadcastFrame(rgb []byte) {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	frameID := s.frameID
	s.mu.RUnlock()

	msg := map[string]any{"type": "frame", "id": frameID, "rgb": rgb}
	for _, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.Close()
		}
	}
}

func (s *State) pushDiagLocked(d diag.Diagnostic) {
	for c := range s.diagClients {
		if err := c.WriteJSON(d); err != nil {
			delete(s.diagClients, c)
			c.Close()
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
