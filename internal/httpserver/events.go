// internal/httpserver/events.go
//
// Inbound side of the websocket transport: per-connection read loop, DTO
// shapes, field validation, and dispatch into the room engine.
//
// Validation lives here so the engine only ever sees well-formed input.
// Violations are reported to the offending connection as a unicast error
// event and never reach the engine. Over-limit messages are dropped.

package httpserver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordforge/go-server/internal/game"
	"github.com/wordforge/go-server/internal/room"
)

// Inbound event names.
const (
	evCreateRoom     = "create_room"
	evJoinRoom       = "join_room"
	evStartRound     = "start_round"
	evSubmitWord     = "submit_word"
	evSyncState      = "sync_state"
	evLeaveRoom      = "leave_room"
	evUpdateSettings = "update_settings"
)

// Field limits on inbound DTOs.
const (
	maxRoomIDLen       = 20
	maxNameLen         = 32
	maxPlayerKeyLen    = 64
	maxSubmissionIDLen = 64
)

// ------------------------------- DTOs ---------------------------------------

type createRoomReq struct {
	RoomID          string `json:"roomId"`
	Name            string `json:"name"`
	PlayerKey       string `json:"playerKey"`
	RoundDurationMs int    `json:"roundDurationMs"`
}

type joinRoomReq struct {
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	PlayerKey string `json:"playerKey"`
	Role      string `json:"role"`
}

type roomOnlyReq struct {
	RoomID string `json:"roomId"`
}

type submitWordReq struct {
	RoomID       string       `json:"roomId"`
	SubmissionID string       `json:"submissionId"`
	Path         []game.Coord `json:"path"`
}

type updateSettingsReq struct {
	RoomID          string `json:"roomId"`
	RoundDurationMs int    `json:"roundDurationMs"`
	BoardSize       int    `json:"boardSize"`
}

// ----------------------------- read loop ------------------------------------

// readLoop consumes frames from the connection until it errors or closes.
// Runs on the upgrade handler's goroutine.
func (s *Server) readLoop(c *conn) {
	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			log.Debug().Str("connId", c.id).Msg("rate limit exceeded, message dropped")
			continue
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.clientError(c, "malformed message")
			continue
		}
		s.dispatch(c, env)
	}
}

// dispatch validates the event payload and hands it to the engine.
func (s *Server) dispatch(c *conn, env envelope) {
	switch env.Event {
	case evCreateRoom:
		var req createRoomReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateCreateRoom(req); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.CreateRoom(c.id, req.RoomID, req.Name, req.PlayerKey, req.RoundDurationMs)

	case evJoinRoom:
		var req joinRoomReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateJoinRoom(req); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.JoinRoom(c.id, req.RoomID, req.Name, req.PlayerKey, req.Role)

	case evStartRound:
		var req roomOnlyReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateRoomID(req.RoomID, false); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.StartRound(c.id, req.RoomID)

	case evSubmitWord:
		var req submitWordReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateSubmitWord(req); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.SubmitWord(c.id, req.RoomID, req.SubmissionID, req.Path)

	case evSyncState:
		var req roomOnlyReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateRoomID(req.RoomID, false); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.SyncState(c.id, req.RoomID)

	case evLeaveRoom:
		var req roomOnlyReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateRoomID(req.RoomID, false); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.Leave(c.id, req.RoomID)

	case evUpdateSettings:
		var req updateSettingsReq
		if !s.decode(c, env.Data, &req) {
			return
		}
		if err := validateUpdateSettings(req); err != nil {
			s.clientError(c, err.Error())
			return
		}
		s.engine.UpdateSettings(c.id, req.RoomID, req.RoundDurationMs, req.BoardSize)

	default:
		s.clientError(c, "unknown event: "+env.Event)
	}
}

// decode unmarshals data into dst, reporting failures to the client.
func (s *Server) decode(c *conn, data json.RawMessage, dst any) bool {
	if err := json.Unmarshal(data, dst); err != nil {
		s.clientError(c, "malformed payload")
		return false
	}
	return true
}

// clientError unicasts an error event without involving the engine.
func (s *Server) clientError(c *conn, msg string) {
	s.hub.To(c.id, room.EventError, room.ErrorPayload{Message: msg})
}

// ----------------------------- validation -----------------------------------

// validateRoomID checks length and alphabet. allowEmpty covers create_room,
// where an absent id means "generate one".
func validateRoomID(id string, allowEmpty bool) error {
	if id == "" {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("roomId is required")
	}
	if len(id) > maxRoomIDLen {
		return fmt.Errorf("roomId must be at most %d characters", maxRoomIDLen)
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("roomId must be alphanumeric")
		}
	}
	return nil
}

func validateName(name string) error {
	if len(name) == 0 || len(name) > maxNameLen {
		return fmt.Errorf("name must be 1-%d characters", maxNameLen)
	}
	return nil
}

// validatePlayerKey bounds the key when present. Whether a key is required
// depends on the role; the engine decides that.
func validatePlayerKey(key string) error {
	if len(key) > maxPlayerKeyLen {
		return fmt.Errorf("playerKey must be at most %d characters", maxPlayerKeyLen)
	}
	return nil
}

func validateCreateRoom(req createRoomReq) error {
	if err := validateRoomID(req.RoomID, true); err != nil {
		return err
	}
	if err := validateName(req.Name); err != nil {
		return err
	}
	if req.PlayerKey == "" {
		return fmt.Errorf("playerKey is required")
	}
	if err := validatePlayerKey(req.PlayerKey); err != nil {
		return err
	}
	if req.RoundDurationMs != 0 &&
		(req.RoundDurationMs < room.MinRoundDurationMs || req.RoundDurationMs > room.MaxRoundDurationMs) {
		return fmt.Errorf("roundDurationMs must be between %d and %d",
			room.MinRoundDurationMs, room.MaxRoundDurationMs)
	}
	return nil
}

func validateJoinRoom(req joinRoomReq) error {
	if err := validateRoomID(req.RoomID, false); err != nil {
		return err
	}
	if err := validateName(req.Name); err != nil {
		return err
	}
	if err := validatePlayerKey(req.PlayerKey); err != nil {
		return err
	}
	if req.Role != "" && req.Role != room.RolePlayer && req.Role != room.RoleSpectator {
		return fmt.Errorf("role must be %q or %q", room.RolePlayer, room.RoleSpectator)
	}
	return nil
}

func validateSubmitWord(req submitWordReq) error {
	if err := validateRoomID(req.RoomID, false); err != nil {
		return err
	}
	if len(req.SubmissionID) == 0 || len(req.SubmissionID) > maxSubmissionIDLen {
		return fmt.Errorf("submissionId must be 1-%d characters", maxSubmissionIDLen)
	}
	if len(req.Path) == 0 {
		return fmt.Errorf("path must not be empty")
	}
	for _, c := range req.Path {
		if c.Row < 0 || c.Col < 0 {
			return fmt.Errorf("path coordinates must be non-negative")
		}
	}
	return nil
}

func validateUpdateSettings(req updateSettingsReq) error {
	if err := validateRoomID(req.RoomID, false); err != nil {
		return err
	}
	if req.RoundDurationMs == 0 && req.BoardSize == 0 {
		return fmt.Errorf("no settings provided")
	}
	return nil
}
