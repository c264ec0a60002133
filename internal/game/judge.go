package game

import (
	"log"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/answer"
)

// applyScoreDeltaLocked is the single mutation path for player scores.
// Question-scoped deltas (cell != nil) are guarded so one player can be
// scored at most once per open cell; overrides pass a nil cell and skip the
// guard. Every applied delta lands in the room's score log. Assumes the
// room lock is held.
func (g *Registry) applyScoreDeltaLocked(room *internal.Room, sessionID string, cell *internal.CellKey, delta int, reason string) bool {
	p := room.Players[sessionID]
	if p == nil {
		return false
	}
	if cell != nil {
		if room.Board == nil || room.Board.Scored[sessionID] {
			return false
		}
		room.Board.Scored[sessionID] = true
	}
	previous := p.Score
	p.Score += delta
	room.ScoreLog = append(room.ScoreLog, internal.ScoreEntry{
		SessionID: sessionID,
		Cell:      cell,
		Delta:     delta,
		Previous:  previous,
		Updated:   p.Score,
		Reason:    reason,
		At:        time.Now(),
	})
	return true
}

// JudgeAnswer is the host verdict. In verbal play it judges the current
// buzz winner; in collection play it judges (or overrides) one player's
// submission; during a daily double it judges the picker for the wager.
func (g *Registry) JudgeAnswer(room *internal.Room, hostSession, targetSession string, correct bool) bool {
	room.Mu.Lock()
	host := room.Players[hostSession]
	if host == nil || !host.Host || room.Board == nil || room.Board.Active == nil {
		room.Mu.Unlock()
		return false
	}

	switch room.Phase {
	case internal.PhaseDailyDouble:
		return g.judgeDailyDoubleLocked(room, targetSession, correct)
	case internal.PhaseQuestionActive:
		if room.Settings.AnswerMode == internal.ModeVerbal {
			return g.judgeVerbalLocked(room, targetSession, correct)
		}
		return g.judgeSubmissionLocked(room, targetSession, correct)
	default:
		room.Mu.Unlock()
		return false
	}
}

// judgeVerbalLocked resolves the buzz winner's spoken answer. Correct pays
// the cell value and hands the winner the next pick; incorrect deducts it,
// locks the player out, and reopens the race for whoever is left. Takes
// ownership of the held room lock.
func (g *Registry) judgeVerbalLocked(room *internal.Room, targetSession string, correct bool) bool {
	b := room.Board
	if b.BuzzWinner == "" || b.BuzzWinner != targetSession {
		room.Mu.Unlock()
		return false
	}
	q := room.ActiveQuestion()
	target := room.Players[targetSession]
	if q == nil || target == nil {
		room.Mu.Unlock()
		return false
	}

	cell := *b.Active
	delta := q.Value
	if !correct {
		delta = -delta
	}
	if !g.applyScoreDeltaLocked(room, targetSession, &cell, delta, "verbal_judged") {
		room.Mu.Unlock()
		return false
	}
	result := internal.JudgeResultData{
		SessionID: targetSession,
		Name:      target.Name,
		Correct:   correct,
		Delta:     delta,
		Score:     target.Score,
	}

	if correct {
		b.Picker = targetSession
		room.Mu.Unlock()
		SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: result})
		g.closeQuestion(room, "answered")
		return true
	}

	b.Attempted[targetSession] = true
	b.BuzzWinner = ""
	// The reopened race includes players who buzzed and lost the first
	// pass; only a judged-incorrect answer locks anyone out.
	exhausted := len(g.remainingContestantsLocked(room)) == 0
	if !exhausted {
		g.openBuzzWindowLocked(room)
	}
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: result})
	if exhausted {
		g.questionTimedOut(room, "exhausted")
	} else {
		SafeBroadcastToRoom(room, internal.Message[any]{
			Type: "buzzer_open",
			Data: map[string]any{"time_limit_ms": internal.BuzzWindowDuration.Milliseconds()},
		})
	}
	return true
}

// judgeSubmissionLocked applies a host verdict to one collected submission.
// Re-judging an already-graded submission flips it and issues the
// corrective delta, so host overrides of the auto-grader stay in the score
// log. Takes ownership of the held room lock.
func (g *Registry) judgeSubmissionLocked(room *internal.Room, targetSession string, correct bool) bool {
	b := room.Board
	sub := b.Submissions[targetSession]
	q := room.ActiveQuestion()
	target := room.Players[targetSession]
	if sub == nil || q == nil || target == nil {
		room.Mu.Unlock()
		return false
	}

	cell := *b.Active
	var delta int
	switch {
	case sub.Correct == nil:
		delta = q.Value
		if !correct {
			delta = -delta
		}
		g.applyScoreDeltaLocked(room, targetSession, &cell, delta, "host_judged")
	case *sub.Correct == correct:
		room.Mu.Unlock()
		return true
	default:
		// Flip of an earlier grade: undo it and apply the new one.
		delta = 2 * q.Value
		if !correct {
			delta = -delta
		}
		g.applyScoreDeltaLocked(room, targetSession, nil, delta, "host_override")
	}
	verdict := correct
	sub.Correct = &verdict

	result := internal.JudgeResultData{
		SessionID: targetSession,
		Name:      target.Name,
		Correct:   correct,
		Delta:     delta,
		Score:     target.Score,
		Answer:    sub.Text,
	}
	allJudged := true
	for _, s := range b.Submissions {
		if s.Correct == nil {
			allJudged = false
			break
		}
	}
	timerDone := room.Timer == nil || !room.Timer.IsActive
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: result})
	if allJudged && timerDone {
		g.closeQuestion(room, "answered")
	}
	return true
}

// SubmitAnswer collects one answer per contestant while a non-verbal
// question is open. Resubmission is rejected. Autograded rooms grade on the
// spot with the fuzzy matcher; multiple choice and typed answers wait for
// the close.
func (g *Registry) SubmitAnswer(room *internal.Room, sessionID, text string, option int) bool {
	room.Mu.Lock()
	b := room.Board
	q := room.ActiveQuestion()
	if b == nil || q == nil || room.Phase != internal.PhaseQuestionActive ||
		room.Settings.AnswerMode == internal.ModeVerbal {
		room.Mu.Unlock()
		return false
	}
	p := room.Players[sessionID]
	if p == nil || !room.IsContestant(p) {
		room.Mu.Unlock()
		return false
	}
	if _, dup := b.Submissions[sessionID]; dup {
		room.Mu.Unlock()
		return false
	}

	sub := &internal.Submission{
		SessionID:   sessionID,
		Text:        text,
		Option:      option,
		SubmittedAt: time.Now(),
	}
	b.Submissions[sessionID] = sub

	mode := room.Settings.AnswerMode
	var result *internal.JudgeResultData
	if mode == internal.ModeAutograde {
		cell := *b.Active
		check := answer.Check(text, q.Answer)
		verdict := check.Correct
		sub.Correct = &verdict
		sub.Confidence = check.Confidence
		delta := q.Value
		if !verdict {
			delta = -delta
		}
		g.applyScoreDeltaLocked(room, sessionID, &cell, delta, "autograded")
		result = &internal.JudgeResultData{
			SessionID:  sessionID,
			Name:       p.Name,
			Correct:    verdict,
			Confidence: check.Confidence,
			Delta:      delta,
			Score:      p.Score,
		}
	}
	submitted := len(b.Submissions)
	allIn := submitted >= len(room.Contestants())
	room.Mu.Unlock()

	log.Printf("[SubmitAnswer] room=%s: %s submitted (%d in)", room.Code, sessionID, submitted)
	if result != nil {
		SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: *result})
	} else {
		SafeBroadcastToRoom(room, internal.Message[any]{
			Type: "answer_submitted",
			Data: map[string]any{"session_id": sessionID, "submitted": submitted},
		})
	}
	if allIn {
		g.closeCollection(room)
	}
	return true
}

// closeCollection ends the answer-collection window, either on timer expiry
// or once every contestant has submitted. Multiple choice grades here in
// one pass; typed play hands the stack to the host; autograded play has
// already settled scores.
func (g *Registry) closeCollection(room *internal.Room) {
	room.Mu.Lock()
	b := room.Board
	q := room.ActiveQuestion()
	if b == nil || q == nil || room.Phase != internal.PhaseQuestionActive {
		room.Mu.Unlock()
		return
	}
	cancelPhaseTimerLocked(room)
	mode := room.Settings.AnswerMode

	switch mode {
	case internal.ModeMultiple:
		cell := *b.Active
		results := make([]internal.JudgeResultData, 0, len(b.Submissions))
		for id, sub := range b.Submissions {
			p := room.Players[id]
			if sub.Correct != nil || p == nil {
				continue
			}
			verdict := len(q.Options) > 0 && sub.Text == q.Options[0]
			sub.Correct = &verdict
			delta := q.Value
			if !verdict {
				delta = -delta
			}
			g.applyScoreDeltaLocked(room, id, &cell, delta, "choice_graded")
			results = append(results, internal.JudgeResultData{
				SessionID: id,
				Name:      p.Name,
				Correct:   verdict,
				Delta:     delta,
				Score:     p.Score,
				Answer:    sub.Text,
			})
		}
		room.Mu.Unlock()
		for _, r := range results {
			SafeBroadcastToRoom(room, internal.Message[any]{Type: "judge_result", Data: r})
		}
		g.closeQuestion(room, "answered")

	case internal.ModeTyped:
		// Collection is over but the verdicts are not in yet; surface the
		// stack so the host can review.
		review := make([]internal.Submission, 0, len(b.Submissions))
		pending := 0
		for _, sub := range b.Submissions {
			review = append(review, *sub)
			if sub.Correct == nil {
				pending++
			}
		}
		room.Mu.Unlock()
		if pending == 0 {
			g.closeQuestion(room, "answered")
			return
		}
		SafeBroadcastToRoom(room, internal.Message[any]{
			Type: "review_answers",
			Data: map[string]any{"submissions": review},
		})

	default:
		room.Mu.Unlock()
		g.closeQuestion(room, "answered")
	}
}

// OverrideScore applies a host-authorized manual adjustment outside any
// question cycle. It bypasses the per-cell guard but still lands in the
// score log.
func (g *Registry) OverrideScore(room *internal.Room, hostSession, targetSession string, delta int, reason string) bool {
	room.Mu.Lock()
	host := room.Players[hostSession]
	if host == nil || !host.Host || room.Phase == internal.PhaseFinished {
		room.Mu.Unlock()
		return false
	}
	if reason == "" {
		reason = "host_adjustment"
	}
	if !g.applyScoreDeltaLocked(room, targetSession, nil, delta, reason) {
		room.Mu.Unlock()
		return false
	}
	score := room.Players[targetSession].Score
	name := room.Players[targetSession].Name
	room.Mu.Unlock()

	log.Printf("[OverrideScore] room=%s: %s adjusted by %d (%s)", room.Code, targetSession, delta, reason)
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "score_override",
		Data: map[string]any{"session_id": targetSession, "name": name, "delta": delta, "score": score},
	})
	return true
}
