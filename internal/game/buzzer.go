package game

import (
	"log"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// buzzCollectGrace is how long the server keeps collecting buzzes after the
// first one lands, so near-simultaneous presses race on reported reaction
// time instead of network jitter.
const buzzCollectGrace = 300 * time.Millisecond

// openBuzzWindowLocked arms the buzzer for the active verbal question and
// starts the no-buzz countdown. Assumes the room lock is held.
func (g *Registry) openBuzzWindowLocked(room *internal.Room) {
	b := room.Board
	b.BuzzOpen = true
	b.BuzzWinner = ""
	b.Buzzes = make(map[string]int64)
	b.BuzzOrder = b.BuzzOrder[:0]
	startPhaseTimerLocked(room, internal.BuzzWindowDuration, func() {
		g.questionTimedOut(room, "timeout")
	})
}

// OpenBuzzer re-arms the buzzer by host request, for hosted rooms where the
// host reads the clue aloud before opening the race.
func (g *Registry) OpenBuzzer(room *internal.Room, sessionID string) bool {
	room.Mu.Lock()
	p := room.Players[sessionID]
	if p == nil || !p.Host || room.Phase != internal.PhaseQuestionActive ||
		room.Board == nil || room.Board.Active == nil || room.Board.BuzzOpen {
		room.Mu.Unlock()
		return false
	}
	g.openBuzzWindowLocked(room)
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "buzzer_open",
		Data: map[string]any{"time_limit_ms": internal.BuzzWindowDuration.Milliseconds()},
	})
	return true
}

// RecordBuzz registers one contestant's buzz. Only the first buzz per
// contestant counts; players already judged incorrect on this question are
// locked out. The first buzz to land swaps the no-buzz countdown for a
// short collection grace, after which the window resolves.
func (g *Registry) RecordBuzz(room *internal.Room, sessionID string, reactionMs int64) bool {
	room.Mu.Lock()
	b := room.Board
	if b == nil || room.Phase != internal.PhaseQuestionActive || !b.BuzzOpen {
		room.Mu.Unlock()
		return false
	}
	p := room.Players[sessionID]
	if p == nil || !room.IsContestant(p) || b.Attempted[sessionID] {
		room.Mu.Unlock()
		return false
	}
	if _, already := b.Buzzes[sessionID]; already {
		room.Mu.Unlock()
		return true
	}
	if reactionMs < 0 {
		reactionMs = 0
	}

	first := len(b.BuzzOrder) == 0
	b.Buzzes[sessionID] = reactionMs
	b.BuzzOrder = append(b.BuzzOrder, sessionID)
	if first {
		startPhaseTimerLocked(room, buzzCollectGrace, func() {
			g.resolveBuzzerWinner(room)
		})
	}
	room.Mu.Unlock()

	log.Printf("[RecordBuzz] room=%s: %s buzzed at %dms", room.Code, sessionID, reactionMs)
	return true
}

// resolveBuzzerWinner closes the window and picks the winner: lowest
// reported reaction time, with ties broken by server arrival order (the
// strict comparison keeps the earlier record). The winner then answers on
// the question clock.
func (g *Registry) resolveBuzzerWinner(room *internal.Room) {
	room.Mu.Lock()
	b := room.Board
	if b == nil || !b.BuzzOpen || len(b.BuzzOrder) == 0 {
		room.Mu.Unlock()
		return
	}

	winner := b.BuzzOrder[0]
	for _, id := range b.BuzzOrder[1:] {
		if b.Buzzes[id] < b.Buzzes[winner] {
			winner = id
		}
	}

	b.BuzzOpen = false
	b.BuzzWinner = winner
	name := ""
	if p := room.Players[winner]; p != nil {
		name = p.Name
	}
	duration := time.Duration(room.Settings.QuestionDuration) * time.Second
	startPhaseTimerLocked(room, duration, func() {
		g.verbalAnswerTimeout(room, winner)
	})
	reaction := b.Buzzes[winner]
	count := len(b.BuzzOrder)
	room.Mu.Unlock()

	log.Printf("[resolveBuzzerWinner] room=%s: winner=%s reaction=%dms of %d buzzes",
		room.Code, winner, reaction, count)
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "buzz_result",
		Data: internal.BuzzResultData{Winner: winner, Name: name, ReactionMs: reaction},
	})
}

// CloseBuzzer force-resolves the window by host request. With buzzes
// pending the fastest one wins; with none the question times out.
func (g *Registry) CloseBuzzer(room *internal.Room, sessionID string) bool {
	room.Mu.Lock()
	p := room.Players[sessionID]
	if p == nil || !p.Host || room.Board == nil || !room.Board.BuzzOpen {
		room.Mu.Unlock()
		return false
	}
	hasBuzzes := len(room.Board.BuzzOrder) > 0
	room.Mu.Unlock()

	if hasBuzzes {
		g.resolveBuzzerWinner(room)
	} else {
		g.questionTimedOut(room, "timeout")
	}
	return true
}

// verbalAnswerTimeout fires when a buzz winner never gets judged in time.
// It counts as an incorrect answer: the winner is locked out and the race
// reopens for whoever is left.
func (g *Registry) verbalAnswerTimeout(room *internal.Room, sessionID string) {
	room.Mu.Lock()
	b := room.Board
	if b == nil || room.Phase != internal.PhaseQuestionActive || b.BuzzWinner != sessionID {
		room.Mu.Unlock()
		return
	}
	b.Attempted[sessionID] = true
	b.BuzzWinner = ""
	exhausted := len(g.remainingContestantsLocked(room)) == 0
	if !exhausted {
		g.openBuzzWindowLocked(room)
	}
	room.Mu.Unlock()

	log.Printf("[verbalAnswerTimeout] room=%s: %s ran out of time", room.Code, sessionID)
	if exhausted {
		g.questionTimedOut(room, "exhausted")
		return
	}
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "buzzer_open",
		Data: map[string]any{"time_limit_ms": internal.BuzzWindowDuration.Milliseconds()},
	})
}

// remainingContestantsLocked lists contestants still allowed to buzz on the
// active question. Eligibility is everyone not yet judged incorrect, which
// is wider than players who never buzzed: losing the race does not lock a
// player out, only a wrong answer does. Assumes the room lock is held.
func (g *Registry) remainingContestantsLocked(room *internal.Room) []*internal.Player {
	var out []*internal.Player
	for _, p := range room.Contestants() {
		if !room.Board.Attempted[p.SessionID] {
			out = append(out, p)
		}
	}
	return out
}
