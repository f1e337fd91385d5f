package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

type server struct {
	sessions *SessionManager
	hub      *Hub
	configs  *ConfigStore
	log      zerolog.Logger
	upgrader websocket.Upgrader
	pingIdle time.Duration
}

type gamePayload struct {
	GameID string `json:"game_id"`
}

type movePayload struct {
	GameID string `json:"game_id"`
	Index  *int   `json:"index"`
}

type configPayload struct {
	Tier   string         `json:"tier"`
	Config *engine.Config `json:"config,omitempty"`
}

func newServer(sessions *SessionManager, hub *Hub, configs *ConfigStore, logger zerolog.Logger) *server {
	return &server{
		sessions: sessions,
		hub:      hub,
		configs:  configs,
		log:      logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		pingIdle: wsIdlePingInterval,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/sessions", s.handleSessions)
	r.Get("/api/sessions/{gameID}", s.handleSession)
	r.Get("/api/config", s.handleGetConfig)
	r.Post("/api/config", s.handleSetConfig)

	r.Post("/start", s.handleStart)
	r.Post("/move", s.handleMove)
	r.Post("/reset", s.handleReset)

	r.Get("/ws", s.serveWS)
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http")
	})
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Create()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, gamePayload{GameID: session.ID})
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Index == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	session, err := s.sessions.Get(payload.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	resp, err := session.Move(*payload.Index)
	switch {
	case errors.Is(err, errInvalidMove):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		s.log.Error().Err(err).Str("game_id", session.ID).Msg("move failed")
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleReset drops the game, if any, and starts a fresh one.
func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload gamePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	s.sessions.Delete(payload.GameID)
	s.handleStart(w, r)
}

func (s *server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.List()})
}

func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Detail())
}

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configs.Get()
	writeJSON(w, http.StatusOK, configPayload{Tier: s.configs.Tier(), Config: &cfg})
}

// handleSetConfig changes the configuration used by sessions started from
// now on. A tier alone selects its preset; a config overrides it.
func (s *server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	tier := payload.Tier
	if tier == "" {
		tier = s.configs.Tier()
	}
	cfg, err := engine.TierConfig(tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.Config != nil {
		cfg = *payload.Config
	}
	if err := s.configs.Update(tier, cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.handleGetConfig(w, r)
}

func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := s.hub.NewClient()
	send := client.send

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, send, s.pingIdle); err != nil {
			s.log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case msgJoinGame:
			var join joinPayload
			if err := json.Unmarshal(msg.Payload, &join); err != nil || join.GameID == "" {
				client.Reply(msgError, map[string]string{"error": "invalid payload"})
				continue
			}
			if _, err := s.sessions.Get(join.GameID); err != nil {
				client.Reply(msgError, map[string]string{"error": err.Error()})
				continue
			}
			s.hub.Join(client, join.GameID)
			s.log.Debug().
				Str("game_id", join.GameID).
				Int("watchers", s.hub.RoomSize(join.GameID)).
				Msg("websocket joined")
			client.Reply(msgJoined, join)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
