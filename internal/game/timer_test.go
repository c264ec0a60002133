package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

func TestTimerExpiryFiresCallback(t *testing.T) {
	room := &internal.Room{Code: "TIMER1", Players: map[string]*internal.Player{}}

	done := make(chan struct{})
	room.Mu.Lock()
	startPhaseTimerLocked(room, 10*time.Millisecond, func() { close(done) })
	room.Mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("the countdown should expire and run its callback")
	}
}

func TestTimerCancelAfterDeadlineSuppressesExpiry(t *testing.T) {
	room := &internal.Room{Code: "TIMER2", Players: map[string]*internal.Player{}}

	var fired atomic.Bool
	room.Mu.Lock()
	startPhaseTimerLocked(room, 10*time.Millisecond, func() { fired.Store(true) })
	// Hold the lock past the deadline so the cancellation lands after the
	// watcher has already woken, the way a skip racing the countdown does.
	time.Sleep(30 * time.Millisecond)
	cancelPhaseTimerLocked(room)
	room.Mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Fatal("a cancelled countdown must not run its expiry callback")
	}
}

func TestTimerReplacementCancelsPrior(t *testing.T) {
	room := &internal.Room{Code: "TIMER3", Players: map[string]*internal.Player{}}

	var stale atomic.Bool
	done := make(chan struct{})
	room.Mu.Lock()
	startPhaseTimerLocked(room, 10*time.Millisecond, func() { stale.Store(true) })
	startPhaseTimerLocked(room, 20*time.Millisecond, func() { close(done) })
	room.Mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("the replacement countdown should expire")
	}
	if stale.Load() {
		t.Error("a replaced countdown must not run its expiry callback")
	}
}
