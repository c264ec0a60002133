package game

import (
	"testing"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

func TestVerbalCorrectPaysAndPassesTurn(t *testing.T) {
	g, room, _ := verbalRoom(t) // cell (0,0), value 200

	g.RecordBuzz(room, "bob", 90)
	g.resolveBuzzerWinner(room)
	if !g.JudgeAnswer(room, "host", "bob", true) {
		t.Fatal("verdict should apply")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["bob"].Score; got != 200 {
		t.Errorf("score = %d, want 200", got)
	}
	if room.Board.Picker != "bob" {
		t.Errorf("picker = %s, a correct answer wins the next pick", room.Board.Picker)
	}
	if room.Phase != internal.PhasePlaying {
		t.Errorf("phase = %s, want playing", room.Phase)
	}
	if len(room.ScoreLog) != 1 {
		t.Fatalf("score log entries = %d, want 1", len(room.ScoreLog))
	}
	if e := room.ScoreLog[0]; e.Delta != 200 || e.Updated != 200 || e.Cell == nil {
		t.Errorf("score log entry = %+v, want +200 tied to a cell", e)
	}
}

func TestVerbalIncorrectDeductsAndKeepsPicker(t *testing.T) {
	g, room, picker := verbalRoom(t)

	responder := "bob"
	if responder == picker {
		responder = "carol"
	}
	g.RecordBuzz(room, responder, 90)
	g.resolveBuzzerWinner(room)
	g.JudgeAnswer(room, "host", responder, false)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players[responder].Score; got != -200 {
		t.Errorf("score = %d, want -200", got)
	}
	if room.Board.Picker != picker {
		t.Errorf("picker = %s, an incorrect answer must not move the turn", room.Board.Picker)
	}
}

func TestVerbalExhaustionEntersRevealPause(t *testing.T) {
	g, room, _ := verbalRoom(t)

	for _, id := range []string{"host", "bob", "carol"} {
		g.RecordBuzz(room, id, 100)
		g.resolveBuzzerWinner(room)
		g.JudgeAnswer(room, "host", pickWinner(t, room), false)
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Phase != internal.PhaseQuestionActive {
		t.Errorf("phase = %s, exhaustion should enter the reveal pause", room.Phase)
	}
	if room.Board.BuzzOpen {
		t.Error("window must not reopen with nobody left")
	}
}

func pickWinner(t *testing.T, room *internal.Room) string {
	t.Helper()
	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Board.BuzzWinner == "" {
		t.Fatal("expected a buzz winner")
	}
	return room.Board.BuzzWinner
}

func TestJudgeRejectsNonHost(t *testing.T) {
	g, room, _ := verbalRoom(t)
	g.RecordBuzz(room, "bob", 90)
	g.resolveBuzzerWinner(room)

	if g.JudgeAnswer(room, "carol", "bob", true) {
		t.Error("only the host may judge")
	}
}

func TestScoreDeltaSinglePathPerCell(t *testing.T) {
	g, room := startedRoom(t, nil)

	room.Mu.Lock()
	cell := internal.CellKey{Category: 0, Row: 0}
	if !g.applyScoreDeltaLocked(room, "bob", &cell, 200, "test") {
		room.Mu.Unlock()
		t.Fatal("first delta should apply")
	}
	if g.applyScoreDeltaLocked(room, "bob", &cell, 200, "test") {
		room.Mu.Unlock()
		t.Fatal("second cell-scoped delta for the same player must be refused")
	}
	if !g.applyScoreDeltaLocked(room, "bob", nil, -50, "override") {
		room.Mu.Unlock()
		t.Fatal("overrides bypass the per-cell guard")
	}
	score := room.Players["bob"].Score
	entries := len(room.ScoreLog)
	room.Mu.Unlock()

	if score != 150 {
		t.Errorf("score = %d, want 150", score)
	}
	if entries != 2 {
		t.Errorf("score log entries = %d, want 2", entries)
	}
}

func TestSubmitAnswerAutogradesImmediately(t *testing.T) {
	g, room := startedRoom(t, &internal.RoomSettings{AnswerMode: internal.ModeAutograde})
	picker := pickerOf(room)
	// Static board cell (0,0): "This planet is known as the Red Planet" / Mars.
	if !g.SelectQuestion(room, picker, 0, 0) {
		t.Fatal("selection should succeed")
	}

	if !g.SubmitAnswer(room, "bob", "what is mars", -1) {
		t.Fatal("submission should be accepted")
	}
	if g.SubmitAnswer(room, "bob", "venus", -1) {
		t.Error("resubmission must be rejected")
	}
	g.SubmitAnswer(room, "carol", "venus", -1)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["bob"].Score; got != 200 {
		t.Errorf("bob score = %d, want 200 for a fuzzy match", got)
	}
	if got := room.Players["carol"].Score; got != -200 {
		t.Errorf("carol score = %d, want -200", got)
	}
	sub := room.Board.Submissions["bob"]
	if sub == nil || sub.Correct == nil || !*sub.Correct {
		t.Error("submission should carry the grading verdict")
	}
}

func TestHostOverridesAutogradeVerdict(t *testing.T) {
	g, room := startedRoom(t, &internal.RoomSettings{AnswerMode: internal.ModeAutograde})
	picker := pickerOf(room)
	g.SelectQuestion(room, picker, 0, 0)
	g.SubmitAnswer(room, "bob", "venus", -1) // graded wrong, -200

	if !g.JudgeAnswer(room, "host", "bob", true) {
		t.Fatal("override verdict should apply")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["bob"].Score; got != 200 {
		t.Errorf("score = %d, want 200 after the -200 grade is flipped", got)
	}
	last := room.ScoreLog[len(room.ScoreLog)-1]
	if last.Reason != "host_override" || last.Delta != 400 || last.Cell != nil {
		t.Errorf("override log entry = %+v, want +400 corrective with nil cell", last)
	}
}

func TestMultipleChoiceGradesOnClose(t *testing.T) {
	g, room := startedRoom(t, &internal.RoomSettings{AnswerMode: internal.ModeMultiple})
	picker := pickerOf(room)

	// Give the cell authored options; the first is canonical.
	room.Mu.Lock()
	room.Board.Cells[0][0].Options = []string{"Mars", "Venus", "Jupiter", "Saturn"}
	room.Mu.Unlock()
	if !g.SelectQuestion(room, picker, 0, 0) {
		t.Fatal("selection should succeed")
	}

	g.SubmitAnswer(room, "bob", "Mars", 0)
	g.SubmitAnswer(room, "carol", "Venus", 1)
	g.closeCollection(room)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["bob"].Score; got != 200 {
		t.Errorf("bob score = %d, want 200", got)
	}
	if got := room.Players["carol"].Score; got != -200 {
		t.Errorf("carol score = %d, want -200", got)
	}
	if room.Phase != internal.PhasePlaying {
		t.Errorf("phase = %s, multiple choice should close after grading", room.Phase)
	}
}

func TestTypedAnswersWaitForHostVerdicts(t *testing.T) {
	g, room := startedRoom(t, &internal.RoomSettings{AnswerMode: internal.ModeTyped})
	picker := pickerOf(room)
	g.SelectQuestion(room, picker, 0, 0)

	g.SubmitAnswer(room, "bob", "mars", -1)
	g.SubmitAnswer(room, "carol", "the moon", -1)
	g.closeCollection(room)

	room.Mu.RLock()
	if room.Phase != internal.PhaseQuestionActive {
		t.Fatalf("phase = %s, typed review keeps the question open", room.Phase)
	}
	room.Mu.RUnlock()

	g.JudgeAnswer(room, "host", "bob", true)
	g.JudgeAnswer(room, "host", "carol", false)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["bob"].Score; got != 200 {
		t.Errorf("bob score = %d, want 200", got)
	}
	if got := room.Players["carol"].Score; got != -200 {
		t.Errorf("carol score = %d, want -200", got)
	}
	if room.Phase != internal.PhasePlaying {
		t.Errorf("phase = %s, question should close once every verdict is in", room.Phase)
	}
}

func TestOverrideScoreHostOnly(t *testing.T) {
	g, room := startedRoom(t, nil)

	if g.OverrideScore(room, "bob", "carol", 100, "") {
		t.Error("non-host override must be rejected")
	}
	if !g.OverrideScore(room, "host", "carol", 100, "scoring mistake") {
		t.Fatal("host override should apply")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Players["carol"].Score; got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
	last := room.ScoreLog[len(room.ScoreLog)-1]
	if last.Reason != "scoring mistake" {
		t.Errorf("reason = %q, want the host's stated reason", last.Reason)
	}
}
