package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/content"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/store"
)

const (
	// codeAlphabet excludes glyphs that read ambiguously on a shared
	// screen (0/O, 1/I/L).
	codeAlphabet    = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	maxCodeAttempts = 64

	DefaultMatchSize = 3
)

// Recorder receives finished-game snapshots for durable storage. It is
// never called while a room lock is held.
type Recorder interface {
	RecordGame(ctx context.Context, roomCode string, results []store.PlayerResult) error
}

// Registry owns every live room, keyed by code, plus the session-to-room
// index used for routing and reconnection. It is an explicitly constructed
// service: tests instantiate isolated registries, and there is no
// package-level room state.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*internal.Room
	sessions map[string]string // durable session id -> room code

	provider content.Provider
	recorder Recorder // nil when persistence is not configured

	queueMu   sync.Mutex
	queue     []*internal.Player
	matchSize int
}

func NewRegistry(provider content.Provider, recorder Recorder) *Registry {
	return &Registry{
		rooms:     make(map[string]*internal.Room),
		sessions:  make(map[string]string),
		provider:  provider,
		recorder:  recorder,
		matchSize: DefaultMatchSize,
	}
}

// SetMatchSize adjusts the quickplay quorum. Values below 2 are ignored.
func (g *Registry) SetMatchSize(n int) {
	if n < 2 {
		return
	}
	g.queueMu.Lock()
	g.matchSize = n
	g.queueMu.Unlock()
}

// generateCodeLocked rejection-samples a code that no live room uses.
// Caller holds g.mu.
func (g *Registry) generateCodeLocked() (string, error) {
	buf := make([]byte, internal.RoomCodeLength)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := g.rooms[code]; !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func validRoomType(t internal.RoomType) bool {
	switch t {
	case internal.RoomCasual, internal.RoomPrivate, internal.RoomHosted:
		return true
	}
	return false
}

// mergeSettings starts from the defaults and applies the caller's
// overrides. Zero-valued numeric and enum fields keep their defaults.
func mergeSettings(overrides *internal.RoomSettings) internal.RoomSettings {
	merged := internal.DefaultSettings()
	if overrides == nil {
		return merged
	}
	if overrides.MaxPlayers > 0 {
		merged.MaxPlayers = overrides.MaxPlayers
	}
	if overrides.QuestionDuration > 0 {
		merged.QuestionDuration = overrides.QuestionDuration
	}
	switch overrides.AnswerMode {
	case internal.ModeVerbal, internal.ModeTyped, internal.ModeMultiple, internal.ModeAutograde:
		merged.AnswerMode = overrides.AnswerMode
	}
	merged.DoubleRound = overrides.DoubleRound
	merged.FinalRound = overrides.FinalRound
	return merged
}

// CreateRoom makes a fresh room with the creator as its first player. The
// creator always holds the host flag; whether they also play depends on the
// room type.
func (g *Registry) CreateRoom(roomType internal.RoomType, creator *internal.Player, overrides *internal.RoomSettings) (*internal.Room, error) {
	if !validRoomType(roomType) {
		return nil, ErrInvalidRoomType
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	code, err := g.generateCodeLocked()
	if err != nil {
		return nil, err
	}

	creator.Host = true
	creator.Connected = true
	creator.JoinedAt = time.Now()

	room := &internal.Room{
		Code:      code,
		Type:      roomType,
		Creator:   creator.SessionID,
		Status:    internal.StatusWaiting,
		Phase:     internal.PhaseWaiting,
		Settings:  mergeSettings(overrides),
		CreatedAt: time.Now(),
		Players:   map[string]*internal.Player{creator.SessionID: creator},
	}

	g.rooms[code] = room
	g.sessions[creator.SessionID] = code

	log.Printf("[CreateRoom] room=%s type=%s creator=%s", code, roomType, creator.SessionID)
	return room, nil
}

// JoinRoom adds a player to a waiting room. A session already present in
// the room is treated as a reconnect and refreshed in place.
func (g *Registry) JoinRoom(code string, p *internal.Player) (*internal.Room, error) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	if !ok {
		g.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	g.sessions[p.SessionID] = code
	g.mu.Unlock()

	room.Mu.Lock()
	if existing, ok := room.Players[p.SessionID]; ok {
		existing.Conn = p.Conn
		existing.ConnID = p.ConnID
		existing.Connected = true
		room.Mu.Unlock()
		g.sendSnapshot(room, existing)
		return room, nil
	}

	if room.Status != internal.StatusWaiting {
		room.Mu.Unlock()
		g.dropSessionIndex(p.SessionID, code)
		return nil, ErrRoomNotJoinable
	}
	if len(room.Players) >= room.Settings.MaxPlayers {
		room.Mu.Unlock()
		g.dropSessionIndex(p.SessionID, code)
		return nil, ErrRoomFull
	}

	p.Host = p.SessionID == room.Creator
	p.Connected = true
	p.JoinedAt = time.Now()
	room.Players[p.SessionID] = p

	joined := internal.Message[any]{
		Type: "player_joined",
		Data: map[string]any{
			"player":       p.Snapshot(),
			"player_count": len(room.Players),
		},
	}
	room.Mu.Unlock()

	log.Printf("[JoinRoom] room=%s session=%s name=%q", code, p.SessionID, p.Name)
	SafeBroadcastToRoomExcept(room, joined, p.SessionID)
	g.sendSnapshot(room, p)
	return room, nil
}

// LeaveRoom hard-removes a player. Score and role are not retained; for
// transport loss use Disconnect instead.
func (g *Registry) LeaveRoom(sessionID string) error {
	room := g.RoomForSession(sessionID)
	if room == nil {
		return ErrRoomNotFound
	}
	g.removePlayer(room, sessionID, "left")
	return nil
}

// KickPlayer removes a target on the host's authority.
func (g *Registry) KickPlayer(hostSession, targetSession string) error {
	room := g.RoomForSession(hostSession)
	if room == nil {
		return ErrRoomNotFound
	}

	room.Mu.RLock()
	host := room.Players[hostSession]
	target := room.Players[targetSession]
	room.Mu.RUnlock()

	if host == nil || !host.Host {
		return ErrNotHost
	}
	if hostSession == targetSession {
		return ErrSelfKick
	}
	if target == nil {
		return ErrPlayerNotFound
	}

	kicked := internal.Message[any]{
		Type: "kicked",
		Data: map[string]any{"message": "You have been removed by the host."},
	}
	if err := target.SafeWriteJSON(kicked); err != nil {
		log.Printf("[KickPlayer] room=%s: notify %s failed: %v", room.Code, targetSession, err)
	}

	g.removePlayer(room, targetSession, "kicked")
	return nil
}

// removePlayer takes a player out of a room and deletes the room when it
// empties. The departing picker's turn passes to another contestant.
func (g *Registry) removePlayer(room *internal.Room, sessionID, reason string) {
	room.Mu.Lock()
	p, ok := room.Players[sessionID]
	if !ok {
		room.Mu.Unlock()
		return
	}
	delete(room.Players, sessionID)
	empty := len(room.Players) == 0

	if !empty && room.Board != nil && room.Board.Picker == sessionID {
		if contestants := room.Contestants(); len(contestants) > 0 {
			room.Board.Picker = contestants[0].SessionID
		}
	}
	if !empty && p.Host {
		// Promote the longest-standing remaining player.
		var oldest *internal.Player
		for _, q := range room.Players {
			if oldest == nil || q.JoinedAt.Before(oldest.JoinedAt) {
				oldest = q
			}
		}
		if oldest != nil {
			oldest.Host = true
		}
	}
	if empty {
		cancelPhaseTimerLocked(room)
	}

	left := internal.Message[any]{
		Type: "player_left",
		Data: map[string]any{
			"session_id": sessionID,
			"name":       p.Name,
			"reason":     reason,
		},
	}
	room.Mu.Unlock()

	g.mu.Lock()
	delete(g.sessions, sessionID)
	if empty {
		delete(g.rooms, room.Code)
	}
	g.mu.Unlock()

	log.Printf("[removePlayer] room=%s session=%s reason=%s empty=%v", room.Code, sessionID, reason, empty)
	if !empty {
		SafeBroadcastToRoom(room, left)
	}
}

func (g *Registry) dropSessionIndex(sessionID, code string) {
	g.mu.Lock()
	if g.sessions[sessionID] == code {
		delete(g.sessions, sessionID)
	}
	g.mu.Unlock()
}

// Room returns the live room with the given code.
func (g *Registry) Room(code string) (*internal.Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

// RoomForSession resolves a durable session id to its room, or nil.
func (g *Registry) RoomForSession(sessionID string) *internal.Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	code, ok := g.sessions[sessionID]
	if !ok {
		return nil
	}
	return g.rooms[code]
}

// RoomCount reports the number of live rooms.
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// WaitingRooms lists casual rooms still accepting players.
func (g *Registry) WaitingRooms() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	codes := make([]string, 0)
	for code, room := range g.rooms {
		room.Mu.RLock()
		joinable := room.Type == internal.RoomCasual &&
			room.Status == internal.StatusWaiting &&
			len(room.Players) < room.Settings.MaxPlayers
		room.Mu.RUnlock()
		if joinable {
			codes = append(codes, code)
		}
	}
	return codes
}

// SweepStale deletes rooms older than maxAge that are not mid-game and
// returns how many were removed.
func (g *Registry) SweepStale(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for code, room := range g.rooms {
		room.Mu.Lock()
		stale := room.Status != internal.StatusInProgress && room.CreatedAt.Before(cutoff)
		if stale {
			cancelPhaseTimerLocked(room)
			for sid := range room.Players {
				delete(g.sessions, sid)
			}
		}
		room.Mu.Unlock()

		if stale {
			delete(g.rooms, code)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[SweepStale] removed %d stale rooms", removed)
	}
	return removed
}

// StartSweeper runs the stale-room sweep until ctx is cancelled.
func (g *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.SweepStale(internal.MaxRoomAge)
		}
	}
}

// sendSnapshot hands one player the full room view so they can resync
// without replaying history.
func (g *Registry) sendSnapshot(room *internal.Room, p *internal.Player) {
	room.Mu.RLock()
	snap := internal.RoomSnapshotData{
		Code:     room.Code,
		Type:     room.Type,
		Status:   room.Status,
		Phase:    room.Phase,
		Settings: room.Settings,
		Players:  room.PlayerSnapshots(),
		Board:    room.BoardPublicSnapshot(),
		You:      p.SessionID,
	}
	room.Mu.RUnlock()

	msg := internal.Message[internal.RoomSnapshotData]{Type: "room_snapshot", Data: snap}
	if err := p.SafeWriteJSON(msg); err != nil {
		log.Printf("[sendSnapshot] room=%s: write to %s failed: %v",
			room.Code, p.SessionID, err)
	}
}

// UpdateSettings lets the host adjust settings while the room is waiting.
func (g *Registry) UpdateSettings(room *internal.Room, sessionID string, settings internal.RoomSettings) bool {
	room.Mu.Lock()
	p := room.Players[sessionID]
	if p == nil || !p.Host || room.Status != internal.StatusWaiting {
		room.Mu.Unlock()
		return false
	}
	room.Settings = mergeSettings(&settings)
	updated := internal.Message[any]{
		Type: "settings_updated",
		Data: map[string]any{"settings": room.Settings},
	}
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, updated)
	return true
}

// SetReady toggles a player's ready flag during the waiting phase.
func (g *Registry) SetReady(room *internal.Room, sessionID string, ready bool) bool {
	room.Mu.Lock()
	p := room.Players[sessionID]
	if p == nil || room.Phase != internal.PhaseWaiting {
		room.Mu.Unlock()
		return false
	}
	p.Ready = ready
	update := internal.Message[any]{
		Type: "lobby_update",
		Data: map[string]any{
			"session_id": sessionID,
			"name":       p.Name,
			"ready":      ready,
		},
	}
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, update)
	return true
}

// persistResults writes final standings through the recorder, if one is
// configured. Runs outside any room lock.
func (g *Registry) persistResults(roomCode string, results []store.PlayerResult) {
	if g.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.recorder.RecordGame(ctx, roomCode, results); err != nil {
		log.Printf("[persistResults] room=%s: %v", roomCode, err)
	}
}
