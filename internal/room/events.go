// internal/room/events.go
//
// Outbound surface of the room engine: the Sender delivery interface, event
// names, payload shapes, and snapshot assembly. All state-bearing payloads
// carry point-in-time copies, never live references, so the transport can
// marshal them after the room lock is released.

package room

import "github.com/wordforge/go-server/internal/game"

// Sender delivers outbound events. The websocket hub implements it in
// production; tests substitute a recorder.
type Sender interface {
	// To unicasts an event to a single connection.
	To(connID, event string, payload any)
	// Broadcast fans an event out to every connection in the room's group.
	Broadcast(roomID, event string, payload any)
	// Join associates a connection with a room's broadcast group.
	Join(connID, roomID string)
}

// Outbound event names.
const (
	EventRoomCreated  = "room_created"
	EventJoinedRoom   = "joined_room"
	EventPlayerState  = "player_state"
	EventSyncState    = "sync_state"
	EventRoundStart   = "round_start"
	EventScoreUpdate  = "score_update"
	EventWordRejected = "word_rejected"
	EventRoundEnd     = "round_end"
	EventRoomSettings = "room_settings"
	EventError        = "error"
)

// Rejection reasons carried by word_rejected. The two are distinct so
// clients can render feedback differently.
const (
	RejectInvalid   = "invalid"
	RejectDuplicate = "duplicate"
)

// Participant roles in snapshots.
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// ------------------------------ payloads -----------------------------------

// PlayerSnapshot is a point-in-time view of a Player.
type PlayerSnapshot struct {
	ID        string `json:"id"` // connection-facing id
	Key       string `json:"key"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"`
	Role      string `json:"role"`
}

// SpectatorSnapshot is a point-in-time view of a Spectator.
type SpectatorSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"` // always false
	Role      string `json:"role"`
}

type RoomCreatedPayload struct {
	RoomID     string              `json:"roomId"`
	PlayerID   string              `json:"playerId"`
	Players    []PlayerSnapshot    `json:"players"`
	Spectators []SpectatorSnapshot `json:"spectators"`
}

type JoinedRoomPayload struct {
	RoomID     string              `json:"roomId"`
	PlayerID   string              `json:"playerId"`
	Role       string              `json:"role"`
	Players    []PlayerSnapshot    `json:"players"`
	Spectators []SpectatorSnapshot `json:"spectators"`
}

type PlayerStatePayload struct {
	Players    []PlayerSnapshot    `json:"players"`
	Spectators []SpectatorSnapshot `json:"spectators"`
}

type SyncStatePayload struct {
	RoomID          string              `json:"roomId"`
	Grid            [][]string          `json:"grid"`
	Players         []PlayerSnapshot    `json:"players"`
	Spectators      []SpectatorSnapshot `json:"spectators"`
	Submissions     []Submission        `json:"submissions"`
	TimeRemaining   int64               `json:"timeRemaining"`
	RoundDurationMs int                 `json:"roundDurationMs"`
	BoardSize       int                 `json:"boardSize"`
	StartAt         *int64              `json:"startAt"` // null until a round starts
}

type RoundStartPayload struct {
	RoomID          string           `json:"roomId"`
	Grid            [][]string       `json:"grid"`
	StartAt         int64            `json:"startAt"`
	RoundDurationMs int              `json:"roundDurationMs"`
	TimeRemaining   int64            `json:"timeRemaining"`
	Players         []PlayerSnapshot `json:"players"`
}

type ScoreUpdatePayload struct {
	RoomID      string           `json:"roomId"`
	PlayerID    string           `json:"playerId"`
	PlayerKey   string           `json:"playerKey"`
	Word        string           `json:"word"`
	ScoreDelta  int              `json:"scoreDelta"`
	TotalScore  int              `json:"totalScore"`
	Submissions []Submission     `json:"submissions"`
	Players     []PlayerSnapshot `json:"players"`
}

type WordRejectedPayload struct {
	SubmissionID string       `json:"submissionId"`
	Word         string       `json:"word"`
	Path         []game.Coord `json:"path"`   // echoed so clients can clear the trace
	Reason       string       `json:"reason"` // "invalid" | "duplicate"
}

type RoundEndPayload struct {
	RoomID      string           `json:"roomId"`
	Submissions []Submission     `json:"submissions"`
	Players     []PlayerSnapshot `json:"players"`
}

type RoomSettingsPayload struct {
	RoomID          string `json:"roomId"`
	RoundDurationMs int    `json:"roundDurationMs"`
	BoardSize       int    `json:"boardSize"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ------------------------------ snapshots -----------------------------------
// All builders must be called with the room's mutex held.

func (r *Room) playersSnapshot() []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, PlayerSnapshot{
			ID:        p.ConnID,
			Key:       p.Key,
			Name:      p.Name,
			Score:     p.Score,
			Connected: p.Connected,
			IsHost:    p.Key != "" && p.Key == r.HostKey,
			Role:      RolePlayer,
		})
	}
	return out
}

func (r *Room) spectatorsSnapshot() []SpectatorSnapshot {
	out := make([]SpectatorSnapshot, 0, len(r.Spectators))
	for _, s := range r.Spectators {
		out = append(out, SpectatorSnapshot{
			ID:        s.ConnID,
			Name:      s.Name,
			Connected: s.Connected,
			Role:      RoleSpectator,
		})
	}
	return out
}

func (r *Room) submissionsSnapshot() []Submission {
	out := make([]Submission, len(r.Submissions))
	copy(out, r.Submissions)
	return out
}

func (r *Room) gridSnapshot() [][]string {
	if r.Grid == nil {
		return [][]string{}
	}
	out := make([][]string, len(r.Grid))
	for i, row := range r.Grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (r *Room) syncSnapshot(nowMs int64) SyncStatePayload {
	var startAt *int64
	if r.StartAt != 0 {
		v := r.StartAt
		startAt = &v
	}
	return SyncStatePayload{
		RoomID:          r.ID,
		Grid:            r.gridSnapshot(),
		Players:         r.playersSnapshot(),
		Spectators:      r.spectatorsSnapshot(),
		Submissions:     r.submissionsSnapshot(),
		TimeRemaining:   r.timeRemaining(nowMs),
		RoundDurationMs: r.RoundDurationMs,
		BoardSize:       r.BoardSize,
		StartAt:         startAt,
	}
}
