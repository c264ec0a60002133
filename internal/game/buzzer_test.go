package game

import (
	"testing"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

func verbalRoom(t *testing.T) (*Registry, *internal.Room, string) {
	t.Helper()
	g, room := startedRoom(t, &internal.RoomSettings{AnswerMode: internal.ModeVerbal})
	picker := pickerOf(room)
	if !g.SelectQuestion(room, picker, 0, 0) {
		t.Fatal("selection should succeed")
	}
	room.Mu.RLock()
	open := room.Board.BuzzOpen
	room.Mu.RUnlock()
	if !open {
		t.Fatal("verbal question should open the buzzer")
	}
	return g, room, picker
}

func TestBuzzFastestReactionWins(t *testing.T) {
	g, room, _ := verbalRoom(t)

	g.RecordBuzz(room, "host", 120)
	g.RecordBuzz(room, "bob", 95)
	g.RecordBuzz(room, "carol", 300)
	g.resolveBuzzerWinner(room)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Board.BuzzWinner != "bob" {
		t.Errorf("winner = %s, want bob (95ms)", room.Board.BuzzWinner)
	}
	if room.Board.BuzzOpen {
		t.Error("window should close on resolution")
	}
}

func TestBuzzTieBreaksOnArrivalOrder(t *testing.T) {
	g, room, _ := verbalRoom(t)

	g.RecordBuzz(room, "carol", 100)
	g.RecordBuzz(room, "bob", 100)
	g.resolveBuzzerWinner(room)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Board.BuzzWinner != "carol" {
		t.Errorf("winner = %s, want carol (earlier arrival at equal reaction)", room.Board.BuzzWinner)
	}
}

func TestBuzzIsIdempotentPerPlayer(t *testing.T) {
	g, room, _ := verbalRoom(t)

	if !g.RecordBuzz(room, "bob", 200) {
		t.Fatal("first buzz should register")
	}
	if !g.RecordBuzz(room, "bob", 10) {
		t.Fatal("repeat buzz is acknowledged")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if got := room.Board.Buzzes["bob"]; got != 200 {
		t.Errorf("recorded reaction = %d, the first buzz must win over a faster repeat", got)
	}
	if len(room.Board.BuzzOrder) != 1 {
		t.Errorf("buzz order length = %d, want 1", len(room.Board.BuzzOrder))
	}
}

func TestBuzzRejectedWhenWindowClosed(t *testing.T) {
	g, room, _ := verbalRoom(t)

	room.Mu.Lock()
	room.Board.BuzzOpen = false
	room.Mu.Unlock()

	if g.RecordBuzz(room, "bob", 50) {
		t.Error("buzz with a closed window should be rejected")
	}
}

func TestBuzzRejectedAfterIncorrectAttempt(t *testing.T) {
	g, room, _ := verbalRoom(t)

	g.RecordBuzz(room, "bob", 80)
	g.resolveBuzzerWinner(room)
	if !g.JudgeAnswer(room, "host", "bob", false) {
		t.Fatal("host verdict should apply")
	}

	room.Mu.RLock()
	open := room.Board.BuzzOpen
	room.Mu.RUnlock()
	if !open {
		t.Fatal("window should reopen for remaining players")
	}
	if g.RecordBuzz(room, "bob", 40) {
		t.Error("a player judged incorrect is locked out of this question")
	}
	if !g.RecordBuzz(room, "carol", 90) {
		t.Error("remaining players may still buzz")
	}
}

func TestCloseBuzzerForcesResolution(t *testing.T) {
	g, room, _ := verbalRoom(t)

	g.RecordBuzz(room, "carol", 150)
	if g.CloseBuzzer(room, "bob") {
		t.Error("only the host may force-close the window")
	}
	if !g.CloseBuzzer(room, "host") {
		t.Fatal("host close should succeed")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Board.BuzzWinner != "carol" {
		t.Errorf("winner = %s, want carol", room.Board.BuzzWinner)
	}
}

func TestCloseBuzzerWithNoBuzzesTimesOut(t *testing.T) {
	g, room, _ := verbalRoom(t)

	if !g.CloseBuzzer(room, "host") {
		t.Fatal("host close should succeed")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Phase != internal.PhaseQuestionActive {
		t.Errorf("phase = %s, want the timeout reveal pause", room.Phase)
	}
	if room.Board.BuzzOpen {
		t.Error("window should be closed")
	}
}
