package game

import (
	"context"
	"log"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// Every room carries at most one scheduled countdown. The handle lives on
// room.Timer and is tied to the phase/question instance that created it:
// phase transitions cancel it, and an expiry callback only fires if its
// context is still the room's current one. A stale timer can therefore
// never mutate state for a question that has already moved on.

// startPhaseTimerLocked replaces the room's countdown. Caller holds room.Mu.
// onExpire runs in its own goroutine, without the lock, on natural expiry.
func startPhaseTimerLocked(room *internal.Room, d time.Duration, onExpire func()) {
	cancelPhaseTimerLocked(room)

	ctx, cancel := context.WithTimeout(context.Background(), d)
	room.Timer = &internal.GameTimer{
		StartTime: time.Now(),
		Duration:  d,
		IsActive:  true,
		Context:   ctx,
		Cancel:    cancel,
	}

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				broadcastTimerUpdate(room, ctx)

			case <-ctx.Done():
				// IsActive must be part of the check: once the deadline has
				// passed ctx.Err() stays DeadlineExceeded even if Cancel ran,
				// so a cancellation that raced the expiry is only visible
				// through the deactivated handle.
				room.Mu.Lock()
				current := room.Timer != nil && room.Timer.Context == ctx && room.Timer.IsActive
				if current {
					room.Timer.IsActive = false
				}
				room.Mu.Unlock()

				if ctx.Err() == context.DeadlineExceeded && current {
					log.Printf("[startPhaseTimer] room=%s: timer expired after %v", room.Code, d)
					go onExpire()
				}
				return
			}
		}
	}()
}

// cancelPhaseTimerLocked stops the current countdown. Caller holds room.Mu.
func cancelPhaseTimerLocked(room *internal.Room) {
	if room.Timer == nil || !room.Timer.IsActive {
		return
	}
	if room.Timer.Cancel != nil {
		room.Timer.Cancel()
	}
	room.Timer.IsActive = false
}

// broadcastTimerUpdate sends the remaining time to the room once a second
// while the given timer instance is still current.
func broadcastTimerUpdate(room *internal.Room, ctx context.Context) {
	room.Mu.RLock()
	if room.Timer == nil || !room.Timer.IsActive || room.Timer.Context != ctx {
		room.Mu.RUnlock()
		return
	}
	remaining := room.Timer.Duration - time.Since(room.Timer.StartTime)
	if remaining < 0 {
		remaining = 0
	}
	update := internal.TimerUpdateData{
		TimeRemaining: remaining.Milliseconds(),
		Phase:         room.Phase,
		IsActive:      true,
	}
	room.Mu.RUnlock()

	SafeBroadcastToRoom(room, internal.Message[any]{Type: "timer_update", Data: update})
}
