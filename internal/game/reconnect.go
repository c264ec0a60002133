package game

import (
	"log"

	"github.com/gorilla/websocket"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// Reconnect reattaches a returning session to its room on a fresh
// connection. The player's identity, score, and role are exactly as they
// were; the new socket simply replaces the dead one and the player gets a
// full snapshot to resync from.
func (g *Registry) Reconnect(sessionID, connID string, conn *websocket.Conn) (*internal.Room, bool) {
	room := g.RoomForSession(sessionID)
	if room == nil {
		return nil, false
	}

	room.Mu.Lock()
	p, ok := room.Players[sessionID]
	if !ok {
		room.Mu.Unlock()
		g.dropSessionIndex(sessionID, room.Code)
		return nil, false
	}
	p.Conn = conn
	p.ConnID = connID
	p.Connected = true
	name := p.Name
	room.Mu.Unlock()

	log.Printf("[Reconnect] room=%s session=%s conn=%s", room.Code, sessionID, connID)
	g.sendSnapshot(room, p)
	SafeBroadcastToRoomExcept(room, internal.Message[any]{
		Type: "player_reconnected",
		Data: map[string]any{"session_id": sessionID, "name": name},
	}, sessionID)
	return room, true
}

// Disconnect marks a session's transport as gone without removing the
// player. Scores, roles, and the session's seat survive so the same
// session id can reconnect mid-game. A stale close from a superseded
// connection is ignored. Sessions waiting in the matchmaking queue have no
// room; their queue entry is marked so the matchmaker's sweep drops it.
func (g *Registry) Disconnect(sessionID, connID string) {
	room := g.RoomForSession(sessionID)
	if room == nil {
		g.markQueuedDisconnected(sessionID, connID)
		return
	}

	room.Mu.Lock()
	p, ok := room.Players[sessionID]
	if !ok || (connID != "" && p.ConnID != connID) {
		room.Mu.Unlock()
		return
	}
	p.Connected = false
	p.Conn = nil
	name := p.Name
	room.Mu.Unlock()

	log.Printf("[Disconnect] room=%s session=%s", room.Code, sessionID)
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "player_disconnected",
		Data: map[string]any{"session_id": sessionID, "name": name},
	})
}
