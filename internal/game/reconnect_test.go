package game

import "testing"

func TestDisconnectKeepsSeatAndScore(t *testing.T) {
	g, room := startedRoom(t, nil)

	room.Mu.Lock()
	room.Players["bob"].Score = 600
	room.Players["bob"].ConnID = "conn-1"
	room.Mu.Unlock()

	g.Disconnect("bob", "conn-1")

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	p, ok := room.Players["bob"]
	if !ok {
		t.Fatal("disconnect must not remove the player")
	}
	if p.Connected {
		t.Error("player should be marked disconnected")
	}
	if p.Score != 600 {
		t.Errorf("score = %d, disconnect must not touch scores", p.Score)
	}
}

func TestDisconnectIgnoresStaleConnection(t *testing.T) {
	g, room := startedRoom(t, nil)

	room.Mu.Lock()
	room.Players["bob"].ConnID = "conn-2" // a newer socket took over
	room.Mu.Unlock()

	g.Disconnect("bob", "conn-1")

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if !room.Players["bob"].Connected {
		t.Error("a close from a superseded connection must not mark the player offline")
	}
}

func TestReconnectRestoresSession(t *testing.T) {
	g, room := startedRoom(t, nil)

	room.Mu.Lock()
	room.Players["bob"].Score = 600
	room.Players["bob"].Host = false
	room.Mu.Unlock()
	g.Disconnect("bob", "")

	back, ok := g.Reconnect("bob", "conn-2", nil)
	if !ok {
		t.Fatal("reconnect with a known session should succeed")
	}
	if back != room {
		t.Error("reconnect must land in the same room")
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if len(room.Players) != 3 {
		t.Fatalf("players = %d, reconnect must not add a seat", len(room.Players))
	}
	p := room.Players["bob"]
	if !p.Connected || p.ConnID != "conn-2" {
		t.Error("reconnect should refresh the connection")
	}
	if p.Score != 600 {
		t.Errorf("score = %d, want 600 preserved across the drop", p.Score)
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	g := newTestRegistry()
	if _, ok := g.Reconnect("ghost", "conn-1", nil); ok {
		t.Error("unknown sessions cannot reconnect")
	}
}

func TestDisconnectedPlayerIsNotAContestant(t *testing.T) {
	g, room := startedRoom(t, nil)
	g.Disconnect("carol", "")

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	for _, p := range room.Contestants() {
		if p.SessionID == "carol" {
			t.Error("offline players must not count toward buzz or submission barriers")
		}
	}
}

func TestRemovePlayerReassignsPicker(t *testing.T) {
	g, room := startedRoom(t, nil)
	picker := pickerOf(room)

	if err := g.LeaveRoom(picker); err != nil {
		t.Fatalf("LeaveRoom: %v", err)
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.Board.Picker == picker {
		t.Error("the departed picker's turn must pass to someone else")
	}
	if _, ok := room.Players[room.Board.Picker]; !ok {
		t.Error("the new picker must be a seated player")
	}
}
