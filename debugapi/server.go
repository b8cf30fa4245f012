// Package debugapi exposes the game's debug controls over HTTP
package debugapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/lixenwraith/word-popper/core"
	"github.com/lixenwraith/word-popper/game"
	"github.com/lixenwraith/word-popper/status"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 4096

// Caller runs fn on the game loop and waits for it
type Caller interface {
	Call(fn func()) bool
}

// Server routes debug requests onto the game loop
type Server struct {
	loop   Caller
	ctrl   *game.Controller
	status *status.Registry
	speech http.Handler

	// clip writes text to the system clipboard, replaced in tests
	clip func(text string) error

	router chi.Router
	srv    *http.Server
}

// NewServer builds the router; speech may be nil when no browser recognizer is configured
func NewServer(loop Caller, ctrl *game.Controller, reg *status.Registry, speech http.Handler) *Server {
	s := &Server{
		loop:   loop,
		ctrl:   ctrl,
		status: reg,
		speech: speech,
		clip:   clipboard.WriteAll,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Get("/state", s.handleState)
	r.Get("/bubbles", s.handleBubbles)
	r.Post("/bubbles/copy", s.handleCopyBubbles)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/game", func(r chi.Router) {
		r.Post("/start", s.lifecycle("start", (*game.Controller).Start))
		r.Post("/pause", s.lifecycle("pause", (*game.Controller).Pause))
		r.Post("/resume", s.lifecycle("resume", (*game.Controller).Resume))
		r.Post("/end", s.lifecycle("end", (*game.Controller).End))
		r.Post("/pop-all", s.handlePopAll)
		r.Post("/words", s.handleWord)
		r.Post("/fuzzy", s.handleFuzzy)
	})

	r.Post("/recognition/restart", s.handleRecognitionRestart)
	if s.speech != nil {
		r.Handle("/ws/speech", s.speech)
	}
	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr in the background and returns the bound address
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	core.Go(func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[debugapi] serve: %v", err)
		}
	})
	log.Printf("[debugapi] listening on %s", ln.Addr())
	return ln.Addr().String(), nil
}

// Shutdown stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// call runs fn on the loop, answering 503 if the loop is gone
func (s *Server) call(w http.ResponseWriter, fn func()) bool {
	if !s.loop.Call(fn) {
		writeError(w, http.StatusServiceUnavailable, "game loop stopped")
		return false
	}
	return true
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	var snap game.Snapshot
	if s.call(w, func() { snap = s.ctrl.Snapshot() }) {
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleBubbles(w http.ResponseWriter, _ *http.Request) {
	var snap game.Snapshot
	if s.call(w, func() { snap = s.ctrl.Snapshot() }) {
		writeJSON(w, http.StatusOK, map[string]any{"count": len(snap.Bubbles), "bubbles": snap.Bubbles})
	}
}

// handleCopyBubbles puts the live words on the clipboard, best effort
func (s *Server) handleCopyBubbles(w http.ResponseWriter, _ *http.Request) {
	var words []string
	if !s.call(w, func() { words = s.ctrl.Snapshot().Words() }) {
		return
	}
	text := strings.Join(words, "\n")
	copied := true
	if err := s.clip(text); err != nil {
		log.Printf("[debugapi] clipboard: %v", err)
		copied = false
	}
	writeJSON(w, http.StatusOK, map[string]any{"words": words, "copied": copied})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status.Snapshot())
}

func (s *Server) lifecycle(name string, op func(*game.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var (
			err   error
			state string
		)
		if !s.call(w, func() {
			err = op(s.ctrl)
			state = s.ctrl.StateName()
		}) {
			return
		}
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "state": state})
			return
		}
		log.Printf("[debugapi] %s -> %s", name, state)
		writeJSON(w, http.StatusOK, map[string]any{"state": state})
	}
}

func (s *Server) handlePopAll(w http.ResponseWriter, _ *http.Request) {
	var popped, score int
	if s.call(w, func() {
		popped = s.ctrl.PopAll()
		score = s.ctrl.Snapshot().Score
	}) {
		writeJSON(w, http.StatusOK, map[string]any{"popped": popped, "score": score})
	}
}

// handleWord matches the whole trimmed string against the bubbles
// Body: {"word": "cat"}
func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	word := strings.TrimSpace(gjson.GetBytes(body, "word").String())
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	var matched bool
	if s.call(w, func() { matched = s.ctrl.InjectWord(word) }) {
		writeJSON(w, http.StatusOK, map[string]any{"word": word, "matched": matched})
	}
}

// handleFuzzy toggles fuzzy matching
// Body: {"enabled": false}
func (s *Server) handleFuzzy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	enabled := gjson.GetBytes(body, "enabled")
	if !gjson.ValidBytes(body) || (enabled.Type != gjson.True && enabled.Type != gjson.False) {
		writeError(w, http.StatusBadRequest, "enabled must be a boolean")
		return
	}

	var now bool
	if s.call(w, func() {
		s.ctrl.SetFuzzy(enabled.Bool())
		now = s.ctrl.Matcher.Fuzzy()
	}) {
		writeJSON(w, http.StatusOK, map[string]any{"fuzzy": now})
	}
}

func (s *Server) handleRecognitionRestart(w http.ResponseWriter, _ *http.Request) {
	if s.call(w, s.ctrl.RestartRecognition) {
		writeJSON(w, http.StatusAccepted, map[string]any{"restarting": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
