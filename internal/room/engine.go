// internal/room/engine.go
//
// The room engine: applies inbound events to room state and emits outbound
// payloads through a Sender.
// Responsibilities:
//   - Membership: create/join (players by durable key, spectators by
//     connection), leave and transport-level disconnects.
//   - Round lifecycle: host-gated start, deferred end announcement with a
//     staleness guard, remaining-time bookkeeping.
//   - Submissions: path validation, duplicate tracking, scoring.
//   - Settings: host-gated, clamped, rejected mid-round.
//
// Concurrency model: each handler takes the target room's mutex for the full
// read-modify-write, so concurrent events on one room serialize while other
// rooms proceed. Snapshots are assembled under the lock; sends happen after
// it is released. The deferred round-end timer is the only asynchronous
// boundary: it re-locks the room and compares the captured start timestamp
// before broadcasting.

package room

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordforge/go-server/internal/game"
	"github.com/wordforge/go-server/internal/trie"
)

// roomIDAlphabet feeds generated room identifiers (6 chars, uppercase
// alphanumeric, same shape clients type in by hand).
const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const roomIDLength = 6

// Engine orchestrates all room mutations. Inputs arrive pre-validated from
// the transport layer (field sizes, types); the engine enforces game rules.
type Engine struct {
	registry *Registry
	dict     *trie.Trie
	sender   Sender

	// Injectable seams so tests control time, timers, and grid contents.
	now      func() time.Time
	schedule func(d time.Duration, f func())
	intn     func(int) int
}

// NewEngine wires an Engine to its registry, dictionary, and outbound sender.
func NewEngine(registry *Registry, dict *trie.Trie, sender Sender) *Engine {
	return &Engine{
		registry: registry,
		dict:     dict,
		sender:   sender,
		now:      time.Now,
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		intn:     rand.Intn,
	}
}

func (e *Engine) nowMs() int64 {
	return e.now().UnixMilli()
}

// fail reports a handler failure to the requester only.
func (e *Engine) fail(connID string, err error) {
	e.sender.To(connID, EventError, ErrorPayload{Message: err.Error()})
}

// newRoomID generates a 6-character uppercase alphanumeric room id.
func (e *Engine) newRoomID() string {
	b := make([]byte, roomIDLength)
	for i := range b {
		b[i] = roomIDAlphabet[e.intn(len(roomIDAlphabet))]
	}
	return string(b)
}

// CreateRoom creates (or reuses) a room and identifies the requester as a
// player. The upsert is idempotent on playerKey: a reconnect refreshes the
// connection reference and name while keeping score and history.
// roomID "" means generate one; roundDurationMs 0 means keep the default.
func (e *Engine) CreateRoom(connID, roomID, name, playerKey string, roundDurationMs int) {
	if roomID == "" {
		roomID = e.newRoomID()
	}
	r := e.registry.GetOrCreate(roomID)

	r.mu.Lock()
	if roundDurationMs > 0 {
		r.RoundDurationMs = roundDurationMs
	}
	e.upsertPlayer(r, connID, name, playerKey)
	created := RoomCreatedPayload{
		RoomID:     r.ID,
		PlayerID:   connID,
		Players:    r.playersSnapshot(),
		Spectators: r.spectatorsSnapshot(),
	}
	state := PlayerStatePayload{Players: created.Players, Spectators: created.Spectators}
	r.mu.Unlock()

	log.Info().Str("roomId", roomID).Str("playerKey", playerKey).Msg("room created")

	e.sender.Join(connID, roomID)
	e.sender.To(connID, EventRoomCreated, created)
	e.sender.Broadcast(roomID, EventPlayerState, state)
}

// JoinRoom adds the requester to a room as a player or spectator. Rooms are
// created on first reference. Joining as spectator removes this connection's
// player entry; joining as player removes its spectator entry.
func (e *Engine) JoinRoom(connID, roomID, name, playerKey, role string) {
	if role == "" {
		role = RolePlayer
	}
	r := e.registry.GetOrCreate(roomID)

	r.mu.Lock()
	if role == RoleSpectator {
		if r.removePlayerByConn(connID) {
			r.ensureHost()
		}
		if s := r.spectatorByConn(connID); s != nil {
			s.Name = name
			s.Connected = true
		} else {
			r.Spectators = append(r.Spectators, &Spectator{ConnID: connID, Name: name, Connected: true})
		}
	} else {
		if playerKey == "" {
			r.mu.Unlock()
			e.fail(connID, ErrMissingPlayerKey)
			return
		}
		r.removeSpectatorByConn(connID)
		e.upsertPlayer(r, connID, name, playerKey)
	}
	joined := JoinedRoomPayload{
		RoomID:     r.ID,
		PlayerID:   connID,
		Role:       role,
		Players:    r.playersSnapshot(),
		Spectators: r.spectatorsSnapshot(),
	}
	state := PlayerStatePayload{Players: joined.Players, Spectators: joined.Spectators}
	sync := r.syncSnapshot(e.nowMs())
	r.mu.Unlock()

	log.Info().Str("roomId", roomID).Str("role", role).Str("name", name).Msg("joined room")

	e.sender.Join(connID, roomID)
	e.sender.To(connID, EventJoinedRoom, joined)
	e.sender.Broadcast(roomID, EventPlayerState, state)
	// Full state too, so reconnecting clients can resume mid-round.
	e.sender.Broadcast(roomID, EventSyncState, sync)
}

// upsertPlayer refreshes an existing player (matched by durable key) or
// appends a new one, and assigns the host role if the room has none.
// Callers hold r.mu.
func (e *Engine) upsertPlayer(r *Room, connID, name, playerKey string) {
	if p := r.playerByKey(playerKey); p != nil {
		p.ConnID = connID
		p.Name = name
		p.Connected = true
	} else {
		r.Players = append(r.Players, &Player{
			ConnID:    connID,
			Key:       playerKey,
			Name:      name,
			Connected: true,
		})
	}
	if r.HostKey == "" {
		r.HostKey = playerKey
	}
}

// StartRound begins a round: fresh grid, cleared submissions and used-word
// sets, zeroed scores, and a deferred end announcement. Host only; rejected
// while a round is active.
func (e *Engine) StartRound(connID, roomID string) {
	r, ok := e.registry.Get(roomID)
	if !ok {
		e.fail(connID, ErrRoomNotFound)
		return
	}
	nowMs := e.nowMs()

	r.mu.Lock()
	requester := r.playerByConn(connID)
	if requester == nil || r.HostKey == "" || requester.Key != r.HostKey {
		r.mu.Unlock()
		e.fail(connID, ErrNotHost)
		return
	}
	if r.roundActive(nowMs) {
		r.mu.Unlock()
		e.fail(connID, ErrRoundActive)
		return
	}

	r.Grid = game.NewGrid(r.BoardSize, e.intn)
	r.StartAt = nowMs
	r.Submissions = nil
	r.UsedWords = make(map[string]map[string]struct{})
	for _, p := range r.Players {
		p.Score = 0
	}
	durationMs := r.RoundDurationMs
	payload := RoundStartPayload{
		RoomID:          r.ID,
		Grid:            r.gridSnapshot(),
		StartAt:         nowMs,
		RoundDurationMs: durationMs,
		TimeRemaining:   r.timeRemaining(nowMs),
		Players:         r.playersSnapshot(),
	}
	r.mu.Unlock()

	log.Info().Str("roomId", roomID).Int("durationMs", durationMs).Msg("round started")

	// The grace margin keeps the announcement from firing while the clock
	// still shows remaining time.
	e.schedule(time.Duration(durationMs+roundEndGraceMs)*time.Millisecond, func() {
		e.announceRoundEnd(r, nowMs)
	})

	e.sender.Broadcast(roomID, EventRoundStart, payload)
}

// announceRoundEnd fires when the deferred timer elapses. startedAt is the
// start timestamp captured at schedule time: if the room has since begun a
// newer round, the stored StartAt won't match and this announcement is
// stale; it broadcasts nothing.
func (e *Engine) announceRoundEnd(r *Room, startedAt int64) {
	r.mu.Lock()
	if r.StartAt != startedAt || r.timeRemaining(e.nowMs()) > 0 {
		r.mu.Unlock()
		return
	}
	payload := RoundEndPayload{
		RoomID:      r.ID,
		Submissions: r.submissionsSnapshot(),
		Players:     r.playersSnapshot(),
	}
	r.mu.Unlock()

	log.Info().Str("roomId", r.ID).Msg("round ended")
	e.sender.Broadcast(r.ID, EventRoundEnd, payload)
}

// SubmitWord validates a traced path and scores it. Geometric or dictionary
// failures and per-round duplicates are reported to the requester only, via
// word_rejected with distinct reasons; accepted words broadcast a
// score_update to the room.
func (e *Engine) SubmitWord(connID, roomID, submissionID string, path []game.Coord) {
	r, ok := e.registry.Get(roomID)
	if !ok {
		e.fail(connID, ErrRoomNotFound)
		return
	}
	nowMs := e.nowMs()

	r.mu.Lock()
	if !r.roundActive(nowMs) {
		r.mu.Unlock()
		e.fail(connID, ErrRoundNotActive)
		return
	}
	p := r.playerByConn(connID)
	if p == nil {
		spectating := r.spectatorByConn(connID) != nil
		r.mu.Unlock()
		if spectating {
			e.fail(connID, ErrSpectating)
		} else {
			e.fail(connID, ErrNotInRoom)
		}
		return
	}
	if len(path) == 0 {
		r.mu.Unlock()
		e.fail(connID, ErrInvalidPath)
		return
	}

	word := reconstructWord(r.Grid, path)

	if !game.ValidateWord(r.Grid, path, e.dict) {
		r.mu.Unlock()
		e.sender.To(connID, EventWordRejected, WordRejectedPayload{
			SubmissionID: submissionID,
			Word:         word,
			Path:         path,
			Reason:       RejectInvalid,
		})
		return
	}

	// Check-and-insert is a single step under the room lock, so the same
	// word racing in twice from one player can't double-score.
	used := r.usedBy(p.Key)
	if _, dup := used[word]; dup {
		r.mu.Unlock()
		e.sender.To(connID, EventWordRejected, WordRejectedPayload{
			SubmissionID: submissionID,
			Word:         word,
			Path:         path,
			Reason:       RejectDuplicate,
		})
		return
	}
	used[word] = struct{}{}

	delta := game.ScoreWord(word)
	p.Score += delta
	r.Submissions = append(r.Submissions, Submission{
		PlayerKey:   p.Key,
		Word:        word,
		Score:       delta,
		SubmittedAt: nowMs,
	})
	payload := ScoreUpdatePayload{
		RoomID:      r.ID,
		PlayerID:    p.ConnID,
		PlayerKey:   p.Key,
		Word:        word,
		ScoreDelta:  delta,
		TotalScore:  p.Score,
		Submissions: r.submissionsSnapshot(),
		Players:     r.playersSnapshot(),
	}
	r.mu.Unlock()

	log.Debug().Str("roomId", roomID).Str("word", word).Int("score", delta).Msg("word accepted")
	e.sender.Broadcast(roomID, EventScoreUpdate, payload)
}

// reconstructWord concatenates the lowercased letters under the in-bounds
// coordinates of path. Out-of-bounds cells contribute nothing; the validator
// rejects such paths, this is only the echo in the rejection payload.
func reconstructWord(grid game.Grid, path []game.Coord) string {
	var b strings.Builder
	for _, c := range path {
		if grid.InBounds(c) {
			b.WriteString(strings.ToLower(grid[c.Row][c.Col]))
		}
	}
	return b.String()
}

// SyncState unicasts a full point-in-time snapshot to the requester and
// (re)associates its connection with the room's broadcast group.
func (e *Engine) SyncState(connID, roomID string) {
	r, ok := e.registry.Get(roomID)
	if !ok {
		e.fail(connID, ErrRoomNotFound)
		return
	}

	r.mu.Lock()
	payload := r.syncSnapshot(e.nowMs())
	r.mu.Unlock()

	e.sender.Join(connID, roomID)
	e.sender.To(connID, EventSyncState, payload)
}

// Leave marks the requester's entry disconnected (never removed, so score
// and history survive a later reconnect by key) and transfers the host role
// if it was theirs.
func (e *Engine) Leave(connID, roomID string) {
	r, ok := e.registry.Get(roomID)
	if !ok {
		e.fail(connID, ErrRoomNotFound)
		return
	}

	r.mu.Lock()
	changed := false
	if p := r.playerByConn(connID); p != nil {
		p.Connected = false
		changed = true
	} else if s := r.spectatorByConn(connID); s != nil {
		s.Connected = false
		changed = true
	}
	if !changed {
		r.mu.Unlock()
		return
	}
	r.ensureHost()
	state := PlayerStatePayload{
		Players:    r.playersSnapshot(),
		Spectators: r.spectatorsSnapshot(),
	}
	r.mu.Unlock()

	log.Info().Str("roomId", roomID).Msg("participant left")
	e.sender.Broadcast(roomID, EventPlayerState, state)
}

// UpdateSettings changes round duration and/or board size. Host only, never
// mid-round. Values are clamped to their allowed ranges; a board-size change
// drops the stored grid (the next round start generates a fresh one).
// Zero means "not provided" for both fields.
func (e *Engine) UpdateSettings(connID, roomID string, roundDurationMs, boardSize int) {
	r, ok := e.registry.Get(roomID)
	if !ok {
		e.fail(connID, ErrRoomNotFound)
		return
	}
	nowMs := e.nowMs()

	r.mu.Lock()
	requester := r.playerByConn(connID)
	if requester == nil || r.HostKey == "" || requester.Key != r.HostKey {
		r.mu.Unlock()
		e.fail(connID, ErrNotHost)
		return
	}
	if r.roundActive(nowMs) {
		r.mu.Unlock()
		e.fail(connID, ErrSettingsMidRound)
		return
	}

	if roundDurationMs != 0 {
		r.RoundDurationMs = clamp(roundDurationMs, MinRoundDurationMs, MaxRoundDurationMs)
	}
	if boardSize != 0 {
		size := clamp(boardSize, MinBoardSize, MaxBoardSize)
		if size != r.BoardSize {
			r.BoardSize = size
			r.Grid = nil
		}
	}
	settings := RoomSettingsPayload{
		RoomID:          r.ID,
		RoundDurationMs: r.RoundDurationMs,
		BoardSize:       r.BoardSize,
	}
	sync := r.syncSnapshot(nowMs)
	r.mu.Unlock()

	log.Info().Str("roomId", roomID).Int("durationMs", settings.RoundDurationMs).
		Int("boardSize", settings.BoardSize).Msg("settings updated")

	e.sender.Broadcast(roomID, EventRoomSettings, settings)
	e.sender.Broadcast(roomID, EventSyncState, sync)
}

// Disconnect handles a transport-level connection drop: every room holding
// this connection marks the participant disconnected, transfers the host
// role if needed, and broadcasts updated membership. Records stay in place
// so a reconnect by key resumes score and history.
func (e *Engine) Disconnect(connID string) {
	for _, r := range e.registry.All() {
		r.mu.Lock()
		changed := false
		if p := r.playerByConn(connID); p != nil && p.Connected {
			p.Connected = false
			changed = true
		} else if s := r.spectatorByConn(connID); s != nil && s.Connected {
			s.Connected = false
			changed = true
		}
		if !changed {
			r.mu.Unlock()
			continue
		}
		r.ensureHost()
		state := PlayerStatePayload{
			Players:    r.playersSnapshot(),
			Spectators: r.spectatorsSnapshot(),
		}
		roomID := r.ID
		r.mu.Unlock()

		log.Info().Str("roomId", roomID).Str("connId", connID).Msg("participant disconnected")
		e.sender.Broadcast(roomID, EventPlayerState, state)
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
