// internal/room/room.go
//
// Room state for the word-search game.
// Defines:
//   - Player / Spectator: room participants. A Player carries two identities:
//     the durable Key (survives reconnects; host designation, scoring and
//     duplicate tracking hang off it) and the transient ConnID (a delivery
//     address, replaced on reconnect).
//   - Submission: an accepted word with its awarded score.
//   - Room: per-room authoritative state, mutated only by the Engine while
//     holding the room's mutex.

package room

import "sync"

// Default settings for freshly created rooms.
const (
	DefaultRoundDurationMs = 60000
	DefaultBoardSize       = 4
)

// Bounds enforced by UpdateSettings.
const (
	MinRoundDurationMs = 15000
	MaxRoundDurationMs = 180000
	MinBoardSize       = 4
	MaxBoardSize       = 8
)

// roundEndGraceMs pads the deferred round-end announcement so it never fires
// while the clock still shows remaining time.
const roundEndGraceMs = 50

// Player is a scoring participant.
type Player struct {
	ConnID    string // transient delivery address
	Key       string // durable identity
	Name      string
	Score     int
	Connected bool
}

// Spectator watches a room without scoring. Spectators have no durable key;
// they are tracked by connection only.
type Spectator struct {
	ConnID    string
	Name      string
	Connected bool
}

// Submission is an accepted word, append-only per round.
type Submission struct {
	PlayerKey   string `json:"playerKey"`
	Word        string `json:"word"`
	Score       int    `json:"score"`
	SubmittedAt int64  `json:"submittedAt"`
}

// Room holds all per-room state. Fields are guarded by mu; the Engine is the
// only writer. A round is active iff StartAt is set and the elapsed time is
// still under RoundDurationMs.
type Room struct {
	mu sync.Mutex

	ID              string
	HostKey         string // "" when no connected player can host
	Players         []*Player
	Spectators      []*Spectator
	Grid            [][]string
	StartAt         int64 // unix ms; 0 = no round has started
	RoundDurationMs int
	BoardSize       int
	Submissions     []Submission
	UsedWords       map[string]map[string]struct{} // player key → words used this round
}

func newRoom(id string) *Room {
	return &Room{
		ID:              id,
		RoundDurationMs: DefaultRoundDurationMs,
		BoardSize:       DefaultBoardSize,
		UsedWords:       make(map[string]map[string]struct{}),
	}
}

// ---------------------- helpers (call with mu held) ------------------------

func (r *Room) playerByKey(key string) *Player {
	for _, p := range r.Players {
		if p.Key == key {
			return p
		}
	}
	return nil
}

func (r *Room) playerByConn(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) spectatorByConn(connID string) *Spectator {
	for _, s := range r.Spectators {
		if s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (r *Room) removePlayerByConn(connID string) bool {
	for i, p := range r.Players {
		if p.ConnID == connID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) removeSpectatorByConn(connID string) bool {
	for i, s := range r.Spectators {
		if s.ConnID == connID {
			r.Spectators = append(r.Spectators[:i], r.Spectators[i+1:]...)
			return true
		}
	}
	return false
}

// timeRemaining computes max(0, duration - elapsed); 0 if no round started.
func (r *Room) timeRemaining(nowMs int64) int64 {
	if r.StartAt == 0 {
		return 0
	}
	remaining := int64(r.RoundDurationMs) - (nowMs - r.StartAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// roundActive reports whether a round is in progress at nowMs.
func (r *Room) roundActive(nowMs int64) bool {
	return r.StartAt != 0 && r.timeRemaining(nowMs) > 0
}

// ensureHost restores the host invariant: the host key, when non-empty, must
// reference a currently connected player. If it doesn't, the role moves to
// the next connected player in join order, or clears if none remain.
func (r *Room) ensureHost() {
	if r.HostKey != "" {
		if p := r.playerByKey(r.HostKey); p != nil && p.Connected {
			return
		}
	}
	r.HostKey = ""
	for _, p := range r.Players {
		if p.Connected {
			r.HostKey = p.Key
			return
		}
	}
}

// usedBy returns the requester's per-round used-word set, creating it lazily.
func (r *Room) usedBy(key string) map[string]struct{} {
	set, ok := r.UsedWords[key]
	if !ok {
		set = make(map[string]struct{})
		r.UsedWords[key] = set
	}
	return set
}
