package internal

import "math/rand"

// Room helpers. All of these assume the caller already holds r.Mu.

func (r *Room) ConnectedCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Connected {
			count++
		}
	}
	return count
}

func (r *Room) HostPlayer() *Player {
	for _, p := range r.Players {
		if p.Host {
			return p
		}
	}
	return nil
}

func (r *Room) AreAllPlayersReady() bool {
	for _, p := range r.Players {
		if p.Connected && !p.Host && !p.Ready {
			return false
		}
	}
	return true
}

// IsContestant reports whether a player answers questions in this room.
// In host-moderated rooms the host judges and does not play; in casual and
// private rooms the host is a regular contestant with extra privileges.
func (r *Room) IsContestant(p *Player) bool {
	if p == nil {
		return false
	}
	return !(p.Host && r.Type == RoomHosted)
}

// Contestants returns connected players that buzz and submit answers.
func (r *Room) Contestants() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected && r.IsContestant(p) {
			out = append(out, p)
		}
	}
	return out
}

// ResetQuestionState clears everything scoped to a single question cycle.
// Revealed flags stay set; they never clear within a round.
func (r *Room) ResetQuestionState() {
	if r.Board == nil {
		return
	}
	r.Board.Active = nil
	r.Board.Wager = 0
	r.Board.BuzzOpen = false
	r.Board.RevealPause = false
	r.Board.Buzzes = make(map[string]int64)
	r.Board.BuzzOrder = make([]string, 0)
	r.Board.BuzzWinner = ""
	r.Board.Attempted = make(map[string]bool)
	r.Board.Submissions = make(map[string]*Submission)
	r.Board.Scored = make(map[string]bool)
}

// ActiveQuestion returns the currently open cell's question, or nil when no
// question is open or the board is missing.
func (r *Room) ActiveQuestion() *Question {
	b := r.Board
	if b == nil || b.Active == nil {
		return nil
	}
	if b.Active.Category < 0 || b.Active.Category >= len(b.Cells) {
		return nil
	}
	col := b.Cells[b.Active.Category]
	if b.Active.Row < 0 || b.Active.Row >= len(col) {
		return nil
	}
	return col[b.Active.Row]
}

// BoardCleared reports whether every cell of the current round is revealed.
func (r *Room) BoardCleared() bool {
	if r.Board == nil {
		return true
	}
	for _, col := range r.Board.Cells {
		for _, q := range col {
			if q != nil && !q.Revealed {
				return false
			}
		}
	}
	return true
}

func (r *Room) PlayerSnapshots() []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.Snapshot())
	}
	return out
}

// BoardPublicSnapshot builds the client view of the board: revealed flags and
// the open clue, never answers.
func (r *Room) BoardPublicSnapshot() *BoardSnapshot {
	b := r.Board
	if b == nil {
		return nil
	}
	revealed := make([][]bool, len(b.Cells))
	for i, col := range b.Cells {
		revealed[i] = make([]bool, len(col))
		for j, q := range col {
			revealed[i][j] = q != nil && q.Revealed
		}
	}
	snap := &BoardSnapshot{
		Round:      b.Round,
		Categories: b.Categories,
		Values:     b.Values,
		Revealed:   revealed,
		Picker:     b.Picker,
		Active:     b.Active,
		BuzzOpen:   b.BuzzOpen,
		BuzzWinner: b.BuzzWinner,
	}
	if q := r.ActiveQuestion(); q != nil {
		snap.ActiveClue = q.Clue
		if len(q.Options) > 0 {
			// Copy and reshuffle so the authored order (correct answer
			// first) never reaches a client.
			opts := append([]string(nil), q.Options...)
			rand.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
			snap.Options = opts
		}
	}
	return snap
}
