package game

import (
	"log"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/answer"
)

const (
	minDailyDoubleWager    = 5
	dailyDoubleWagerWindow = 30 * time.Second
)

// maxDailyDoubleWagerLocked is a true daily double: the picker may risk up
// to their current score, or up to the round's top cell value if they have
// less than that. Assumes the room lock is held.
func maxDailyDoubleWagerLocked(room *internal.Room, sessionID string) int {
	top := 0
	if n := len(room.Board.Values); n > 0 {
		top = room.Board.Values[n-1]
	}
	if p := room.Players[sessionID]; p != nil && p.Score > top {
		return p.Score
	}
	return top
}

// SubmitDailyDoubleWager locks in the picker's stake and reveals the clue.
// Only the picker acts on a daily double; there is no buzz race.
func (g *Registry) SubmitDailyDoubleWager(room *internal.Room, sessionID string, amount int) bool {
	room.Mu.Lock()
	b := room.Board
	q := room.ActiveQuestion()
	if b == nil || q == nil || room.Phase != internal.PhaseDailyDouble ||
		b.Picker != sessionID || b.Wager != 0 {
		room.Mu.Unlock()
		return false
	}
	maxWager := maxDailyDoubleWagerLocked(room, sessionID)
	if amount < minDailyDoubleWager || amount > maxWager {
		room.Mu.Unlock()
		return false
	}

	b.Wager = amount
	duration := time.Duration(room.Settings.QuestionDuration) * time.Second
	startPhaseTimerLocked(room, duration, func() {
		g.dailyDoubleTimeout(room, sessionID)
	})
	clue := internal.QuestionOpenedData{
		Cell:        *b.Active,
		Category:    q.Category,
		Value:       amount,
		Clue:        q.Clue,
		DailyDouble: true,
		TimeLimitMs: duration.Milliseconds(),
	}
	room.Mu.Unlock()

	log.Printf("[SubmitDailyDoubleWager] room=%s: %s wagers %d", room.Code, sessionID, amount)
	SafeBroadcastToRoom(room, internal.Message[any]{Type: "daily_double_clue", Data: clue})
	return true
}

// SubmitDailyDoubleAnswer takes the picker's answer for the locked-in
// wager. Autograded and multiple-choice rooms settle immediately with the
// matcher; verbal and typed rooms record it and wait for the host verdict.
func (g *Registry) SubmitDailyDoubleAnswer(room *internal.Room, sessionID, text string) bool {
	room.Mu.Lock()
	b := room.Board
	q := room.ActiveQuestion()
	if b == nil || q == nil || room.Phase != internal.PhaseDailyDouble ||
		b.Picker != sessionID || b.Wager == 0 {
		room.Mu.Unlock()
		return false
	}
	if _, dup := b.Submissions[sessionID]; dup {
		room.Mu.Unlock()
		return false
	}
	b.Submissions[sessionID] = &internal.Submission{
		SessionID:   sessionID,
		Text:        text,
		Option:      -1,
		SubmittedAt: time.Now(),
	}

	mode := room.Settings.AnswerMode
	if mode != internal.ModeAutograde && mode != internal.ModeMultiple {
		count := len(b.Submissions)
		room.Mu.Unlock()
		log.Printf("[SubmitDailyDoubleAnswer] room=%s: %s answered, awaiting host", room.Code, sessionID)
		SafeBroadcastToRoom(room, internal.Message[any]{
			Type: "answer_submitted",
			Data: map[string]any{"session_id": sessionID, "submitted": count},
		})
		return true
	}

	check := answer.Check(text, q.Answer)
	return g.settleDailyDoubleLocked(room, sessionID, check.Correct, check.Confidence)
}

// judgeDailyDoubleLocked applies the host verdict on a daily double answer.
// Takes ownership of the held room lock.
func (g *Registry) judgeDailyDoubleLocked(room *internal.Room, targetSession string, correct bool) bool {
	b := room.Board
	if b.Picker != targetSession || b.Wager == 0 {
		room.Mu.Unlock()
		return false
	}
	return g.settleDailyDoubleLocked(room, targetSession, correct, 0)
}

// settleDailyDoubleLocked pays out or deducts the wager and closes the
// cell. The picker keeps the next pick either way. Takes ownership of the
// held room lock.
func (g *Registry) settleDailyDoubleLocked(room *internal.Room, sessionID string, correct bool, confidence float64) bool {
	b := room.Board
	cell := *b.Active
	delta := b.Wager
	if !correct {
		delta = -delta
	}
	if !g.applyScoreDeltaLocked(room, sessionID, &cell, delta, "daily_double") {
		room.Mu.Unlock()
		return false
	}
	if sub := b.Submissions[sessionID]; sub != nil {
		verdict := correct
		sub.Correct = &verdict
		sub.Confidence = confidence
	}
	result := internal.JudgeResultData{
		SessionID:  sessionID,
		Correct:    correct,
		Confidence: confidence,
		Delta:      delta,
		Score:      room.Players[sessionID].Score,
	}
	if p := room.Players[sessionID]; p != nil {
		result.Name = p.Name
	}
	room.Mu.Unlock()

	log.Printf("[settleDailyDouble] room=%s: %s correct=%t delta=%d", room.Code, sessionID, correct, delta)
	SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: result})
	g.closeQuestion(room, "answered")
	return true
}

// forceDailyDoubleWager steps in for a picker who never declares a stake:
// the minimum wager is placed for them and the clue comes out.
func (g *Registry) forceDailyDoubleWager(room *internal.Room, sessionID string) {
	room.Mu.RLock()
	pending := room.Phase == internal.PhaseDailyDouble &&
		room.Board != nil && room.Board.Picker == sessionID && room.Board.Wager == 0
	room.Mu.RUnlock()
	if !pending {
		return
	}
	log.Printf("[forceDailyDoubleWager] room=%s: wager window expired for %s", room.Code, sessionID)
	g.SubmitDailyDoubleWager(room, sessionID, minDailyDoubleWager)
}

// dailyDoubleTimeout fires when the picker never answers in time: the
// wager is lost and the cell closes.
func (g *Registry) dailyDoubleTimeout(room *internal.Room, sessionID string) {
	room.Mu.Lock()
	b := room.Board
	if b == nil || room.Phase != internal.PhaseDailyDouble || b.Picker != sessionID || b.Wager == 0 {
		room.Mu.Unlock()
		return
	}
	if _, answered := b.Submissions[sessionID]; answered && room.Settings.AnswerMode != internal.ModeVerbal {
		// Answer is in and a host verdict is pending; leave it to the host.
		room.Mu.Unlock()
		return
	}
	log.Printf("[dailyDoubleTimeout] room=%s: %s forfeits %d", room.Code, sessionID, b.Wager)
	g.settleDailyDoubleLocked(room, sessionID, false, 0)
}
