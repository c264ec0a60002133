package game

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/answer"
)

const finalWagerWindow = 45 * time.Second

// StartFinalJeopardy moves the room into the final round. Eligibility is
// snapshotted once at entry: contestants with a non-negative score. An
// empty sessionID is the round-advance path; a host may also trigger it
// from an open board.
func (g *Registry) StartFinalJeopardy(room *internal.Room, sessionID string) bool {
	room.Mu.Lock()
	if sessionID != "" {
		p := room.Players[sessionID]
		if p == nil || !p.Host || room.Phase != internal.PhasePlaying {
			room.Mu.Unlock()
			return false
		}
	} else if room.Phase != internal.PhaseRoundEnd && room.Phase != internal.PhasePlaying {
		room.Mu.Unlock()
		return false
	}
	room.Phase = internal.PhaseSetup
	room.Mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	q, err := g.provider.Final(ctx)
	if err != nil {
		log.Printf("[StartFinalJeopardy] room=%s: no final question: %v", room.Code, err)
		g.finishGame(room)
		return false
	}

	room.Mu.Lock()
	eligible := make(map[string]struct{})
	names := make([]string, 0)
	for _, p := range room.Contestants() {
		if p.Score >= 0 {
			eligible[p.SessionID] = struct{}{}
			names = append(names, p.SessionID)
		}
	}
	if len(eligible) == 0 {
		room.Mu.Unlock()
		log.Printf("[StartFinalJeopardy] room=%s: nobody eligible, ending game", room.Code)
		g.finishGame(room)
		return true
	}
	sort.Strings(names)

	room.Phase = internal.PhaseFinalJeopardy
	room.Board = nil
	room.Final = &internal.FinalState{
		Category: q.Category,
		Clue:     q.Clue,
		Answer:   q.Answer,
		Eligible: eligible,
		Wagers:   make(map[string]int),
		Answers:  make(map[string]string),
	}
	startPhaseTimerLocked(room, finalWagerWindow, func() {
		g.finalWagerTimeout(room)
	})
	room.Mu.Unlock()

	log.Printf("[StartFinalJeopardy] room=%s: category=%q eligible=%d", room.Code, q.Category, len(eligible))
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "final_started",
		Data: internal.FinalStartedData{Category: q.Category, Eligible: names},
	})
	return true
}

// SubmitFinalWager records one eligible player's stake, 0 up to their
// current score. The clue stays hidden until every eligible player has
// wagered; wagers cannot change once placed.
func (g *Registry) SubmitFinalWager(room *internal.Room, sessionID string, amount int) bool {
	room.Mu.Lock()
	f := room.Final
	if f == nil || room.Phase != internal.PhaseFinalJeopardy || f.ClueSent {
		room.Mu.Unlock()
		return false
	}
	if _, ok := f.Eligible[sessionID]; !ok {
		room.Mu.Unlock()
		return false
	}
	if _, dup := f.Wagers[sessionID]; dup {
		room.Mu.Unlock()
		return false
	}
	p := room.Players[sessionID]
	if p == nil || amount < 0 || amount > p.Score {
		room.Mu.Unlock()
		return false
	}

	f.Wagers[sessionID] = amount
	wagered := len(f.Wagers)
	allIn := wagered == len(f.Eligible)
	if !allIn {
		room.Mu.Unlock()
		log.Printf("[SubmitFinalWager] room=%s: %d/%d wagers in", room.Code, wagered, len(f.Eligible))
		SafeBroadcastToRoom(room, internal.Message[any]{
			Type: "wager_submitted",
			Data: map[string]any{"session_id": sessionID, "wagered": wagered},
		})
		return true
	}
	g.sendFinalClueLocked(room)
	return true
}

// finalWagerTimeout closes the wager barrier on the clock: anyone who never
// wagered is in for nothing.
func (g *Registry) finalWagerTimeout(room *internal.Room) {
	room.Mu.Lock()
	f := room.Final
	if f == nil || room.Phase != internal.PhaseFinalJeopardy || f.ClueSent {
		room.Mu.Unlock()
		return
	}
	for id := range f.Eligible {
		if _, ok := f.Wagers[id]; !ok {
			f.Wagers[id] = 0
		}
	}
	g.sendFinalClueLocked(room)
}

// sendFinalClueLocked reveals the clue to everyone at once and starts the
// answer clock. Takes ownership of the held room lock.
func (g *Registry) sendFinalClueLocked(room *internal.Room) {
	f := room.Final
	f.ClueSent = true
	clue := f.Clue
	duration := time.Duration(room.Settings.QuestionDuration) * time.Second
	startPhaseTimerLocked(room, duration, func() {
		g.settleFinal(room)
	})
	room.Mu.Unlock()

	log.Printf("[sendFinalClue] room=%s: clue out, %ds to answer", room.Code, int(duration.Seconds()))
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "final_clue",
		Data: internal.FinalClueData{Clue: clue},
	})
}

// SubmitFinalAnswer records one eligible player's response. First write
// wins; nothing is revealed until every response is in or the clock runs
// out.
func (g *Registry) SubmitFinalAnswer(room *internal.Room, sessionID, text string) bool {
	room.Mu.Lock()
	f := room.Final
	if f == nil || room.Phase != internal.PhaseFinalJeopardy || !f.ClueSent || f.Results != nil {
		room.Mu.Unlock()
		return false
	}
	if _, ok := f.Eligible[sessionID]; !ok {
		room.Mu.Unlock()
		return false
	}
	if _, dup := f.Answers[sessionID]; dup {
		room.Mu.Unlock()
		return false
	}

	f.Answers[sessionID] = text
	answered := len(f.Answers)
	allIn := answered == len(f.Eligible)
	room.Mu.Unlock()

	log.Printf("[SubmitFinalAnswer] room=%s: %d/%d answers in", room.Code, answered, len(f.Eligible))
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "answer_submitted",
		Data: map[string]any{"session_id": sessionID, "submitted": answered},
	})
	if allIn {
		g.settleFinal(room)
	}
	return true
}

// settleFinal grades every response in one pass, applies the wager deltas,
// and publishes the full result set together. A missing answer counts as
// incorrect; the wager is lost.
func (g *Registry) settleFinal(room *internal.Room) {
	room.Mu.Lock()
	f := room.Final
	if f == nil || room.Phase != internal.PhaseFinalJeopardy || !f.ClueSent || f.Results != nil {
		room.Mu.Unlock()
		return
	}
	cancelPhaseTimerLocked(room)

	results := make([]internal.FinalResult, 0, len(f.Eligible))
	for id := range f.Eligible {
		p := room.Players[id]
		if p == nil {
			continue
		}
		wager := f.Wagers[id]
		text, answered := f.Answers[id]
		var correct bool
		var confidence float64
		if answered {
			check := answer.Check(text, f.Answer)
			correct = check.Correct
			confidence = check.Confidence
		}
		delta := wager
		if !correct {
			delta = -delta
		}
		g.applyScoreDeltaLocked(room, id, nil, delta, "final_jeopardy")
		results = append(results, internal.FinalResult{
			SessionID:  id,
			Name:       p.Name,
			Wager:      wager,
			Answer:     text,
			Correct:    correct,
			Confidence: confidence,
			FinalScore: p.Score,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].FinalScore > results[j].FinalScore })
	f.Results = results
	room.Mu.Unlock()

	log.Printf("[settleFinal] room=%s: final graded for %d players", room.Code, len(results))
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "final_results",
		Data: internal.FinalResultsData{Results: results},
	})
	g.finishGame(room)
}
