// internal/room/errors.go
//
// Error taxonomy for event handling. Every failure here is local to the
// originating connection: it is reported as a unicast error event, mutates
// nothing, and never affects other participants or the process.

package room

import "errors"

var (
	// NotFound
	ErrRoomNotFound = errors.New("Room not found")

	// Unauthorized
	ErrNotHost = errors.New("Only the host can do that")

	// InvalidState
	ErrRoundActive      = errors.New("Round already active")
	ErrRoundNotActive   = errors.New("Round not active")
	ErrSettingsMidRound = errors.New("Cannot change settings during a round")

	// InvalidInput
	ErrMissingPlayerKey = errors.New("Player key required to join as player")
	ErrInvalidPath      = errors.New("Invalid path")

	// Submission gating (distinct so clients can tell them apart)
	ErrNotInRoom  = errors.New("Player not in room")
	ErrSpectating = errors.New("Spectators cannot submit words")
)
