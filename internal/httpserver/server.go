// internal/httpserver/server.go
//
// HTTP server wiring for the word-search game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Diagnostics endpoints: "/", "/health", "/debug/words".
//   - GET /ws: websocket upgrade; each accepted socket becomes a hub
//     connection with its own read loop and write pump.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled. The websocket upgrade
//     checks the same CLIENT_ORIGIN allowance.
//   - All game traffic flows over the websocket; HTTP stays diagnostics-only.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wordforge/go-server/internal/room"
	"github.com/wordforge/go-server/internal/words"
)

// Server bundles the router, the connection hub, and the room engine.
type Server struct {
	r      *chi.Mux
	hub    *Hub
	engine *room.Engine

	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(hub *Hub, engine *room.Engine) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		hub:    hub,
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originAllowed,
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	// --- diagnostics ---
	// Handler time is bounded here only; the websocket handler lives for the
	// whole connection and must not be wrapped in a timeout.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordforge-go","endpoints":["/health","/debug/words","GET /ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// Debug: dictionary size after filtering
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]int{"words": words.Count()})
		})
	})

	// Game traffic
	s.r.Get("/ws", s.handleWS)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleWS upgrades the request and hands the socket to the hub. The read
// loop runs on this goroutine; the write pump gets its own. When the read
// loop exits the engine is told so room membership reflects the drop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := s.hub.register(sock)
	log.Info().Str("connId", c.id).Str("remote", r.RemoteAddr).Msg("connection opened")

	go c.writePump()
	s.readLoop(c)

	s.hub.unregister(c)
	s.engine.Disconnect(c.id)
	log.Info().Str("connId", c.id).Msg("connection closed")
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAllowed accepts requests with no Origin header (non-browser clients)
// or an Origin matching CLIENT_ORIGIN.
func originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == getEnv("CLIENT_ORIGIN", "http://localhost:5173")
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
