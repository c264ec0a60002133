package game

import "errors"

// Registry-surface errors. Room-scoped gameplay operations do not return
// these; they no-op on invalid state and the transport layer acks the
// requesting client instead.
var (
	ErrInvalidRoomType = errors.New("invalid room type")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotJoinable = errors.New("room is not accepting players")
	ErrRoomFull        = errors.New("room is at capacity")
	ErrCodeExhausted   = errors.New("room code generation exhausted")
	ErrNotHost         = errors.New("requires host privileges")
	ErrSelfKick        = errors.New("host cannot kick themselves")
	ErrPlayerNotFound  = errors.New("player not found in room")
	ErrAlreadyQueued   = errors.New("session already in matchmaking queue")
)
