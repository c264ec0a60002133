package game

import (
	"log"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// SafeBroadcastToRoom writes a message to every connected player. The player
// set is snapshotted under a read lock; the writes happen outside it so a
// slow socket never stalls the room.
func SafeBroadcastToRoom(room *internal.Room, msg any) {
	SafeBroadcastToRoomExcept(room, msg, "")
}

// SafeBroadcastToRoomExcept broadcasts to everyone but the named session.
func SafeBroadcastToRoomExcept(room *internal.Room, msg any, exceptSession string) {
	room.Mu.RLock()
	targets := make([]*internal.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Connected && p.SessionID != exceptSession {
			targets = append(targets, p)
		}
	}
	room.Mu.RUnlock()

	for _, p := range targets {
		if err := p.SafeWriteJSON(msg); err != nil {
			log.Printf("[SafeBroadcastToRoom] room=%s: write to %s failed: %v",
				room.Code, p.SessionID, err)
		}
	}
}

// sendError acks a failed request to the single requesting client. Failures
// are never broadcast.
func sendError(p *internal.Player, code, message string) {
	if p == nil {
		return
	}
	msg := internal.Message[internal.ErrorData]{
		Type: "error",
		Data: internal.ErrorData{Code: code, Message: message},
	}
	if err := p.SafeWriteJSON(msg); err != nil {
		log.Printf("[sendError] write to %s failed: %v", p.SessionID, err)
	}
}

func sendAck(p *internal.Player, event string, ok bool) {
	if p == nil {
		return
	}
	msg := internal.Message[internal.AckData]{
		Type: "ack",
		Data: internal.AckData{Event: event, OK: ok},
	}
	if err := p.SafeWriteJSON(msg); err != nil {
		log.Printf("[sendAck] write to %s failed: %v", p.SessionID, err)
	}
}
