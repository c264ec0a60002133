package game

import (
	"context"
	"log"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// JoinQueue enqueues a player for quickplay. The queue is FIFO: once enough
// players are waiting, the oldest quorum is pulled into a fresh casual room
// together.
func (g *Registry) JoinQueue(p *internal.Player) error {
	if room := g.RoomForSession(p.SessionID); room != nil {
		return ErrAlreadyQueued
	}

	g.queueMu.Lock()
	for _, queued := range g.queue {
		if queued.SessionID == p.SessionID {
			g.queueMu.Unlock()
			return ErrAlreadyQueued
		}
	}
	g.queue = append(g.queue, p)
	position := len(g.queue)
	g.queueMu.Unlock()

	log.Printf("[JoinQueue] session=%s position=%d", p.SessionID, position)
	if err := p.SafeWriteJSON(internal.Message[any]{
		Type: "queue_joined",
		Data: map[string]any{"position": position},
	}); err != nil {
		log.Printf("[JoinQueue] notify %s failed: %v", p.SessionID, err)
	}

	g.tryMatch()
	return nil
}

// LeaveQueue drops a waiting player. Reports whether they were queued.
func (g *Registry) LeaveQueue(sessionID string) bool {
	g.queueMu.Lock()
	defer g.queueMu.Unlock()
	for i, p := range g.queue {
		if p.SessionID == sessionID {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			return true
		}
	}
	return false
}

// tryMatch forms as many full matches as the queue allows. Each match
// becomes a casual room with the longest-waiting player as creator.
func (g *Registry) tryMatch() {
	for {
		g.queueMu.Lock()
		if len(g.queue) < g.matchSize {
			g.queueMu.Unlock()
			return
		}
		matched := make([]*internal.Player, g.matchSize)
		copy(matched, g.queue[:g.matchSize])
		g.queue = append(g.queue[:0], g.queue[g.matchSize:]...)
		g.queueMu.Unlock()

		room, err := g.CreateRoom(internal.RoomCasual, matched[0], nil)
		if err != nil {
			log.Printf("[tryMatch] creating room failed: %v", err)
			g.queueMu.Lock()
			g.queue = append(matched, g.queue...)
			g.queueMu.Unlock()
			return
		}
		for _, p := range matched[1:] {
			if _, err := g.JoinRoom(room.Code, p); err != nil {
				log.Printf("[tryMatch] room=%s: join for %s failed: %v", room.Code, p.SessionID, err)
			}
		}

		log.Printf("[tryMatch] room=%s: matched %d players", room.Code, len(matched))
		found := internal.Message[internal.MatchFoundData]{
			Type: "match_found",
			Data: internal.MatchFoundData{Code: room.Code},
		}
		for _, p := range matched {
			if err := p.SafeWriteJSON(found); err != nil {
				log.Printf("[tryMatch] room=%s: notify %s failed: %v", room.Code, p.SessionID, err)
			}
		}
	}
}

// markQueuedDisconnected flags a waiting player whose socket closed so the
// next prune drops them. A stale close from a superseded connection is
// ignored, mirroring the in-room disconnect path.
func (g *Registry) markQueuedDisconnected(sessionID, connID string) {
	g.queueMu.Lock()
	defer g.queueMu.Unlock()
	for _, p := range g.queue {
		if p.SessionID == sessionID {
			if connID == "" || p.ConnID == connID {
				p.Connected = false
			}
			return
		}
	}
}

// pruneQueue drops queue entries whose connection is gone.
func (g *Registry) pruneQueue() {
	g.queueMu.Lock()
	kept := g.queue[:0]
	for _, p := range g.queue {
		if p.Connected {
			kept = append(kept, p)
		}
	}
	dropped := len(g.queue) - len(kept)
	g.queue = kept
	g.queueMu.Unlock()
	if dropped > 0 {
		log.Printf("[pruneQueue] dropped %d dead queue entries", dropped)
	}
}

// StartMatchmaker prunes dead connections from the queue and retries match
// formation until ctx is cancelled. Match formation normally happens inline
// on enqueue; the ticker is the backstop for players who vanish while
// waiting.
func (g *Registry) StartMatchmaker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.pruneQueue()
			g.tryMatch()
		}
	}
}
