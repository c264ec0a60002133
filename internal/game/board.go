package game

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/content"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/store"
)

// PlaceDailyDoubles picks hidden wager cells for one round. Row weights grow
// linearly with point value and row zero is never eligible; duplicates are
// rejection-sampled away. Placement happens once per round, before play.
func PlaceDailyDoubles(numCategories, numRows, count int) map[internal.CellKey]struct{} {
	placed := make(map[internal.CellKey]struct{})
	if numCategories < 1 || numRows < 2 || count < 1 {
		return placed
	}
	if maxCells := numCategories * (numRows - 1); count > maxCells {
		count = maxCells
	}

	totalWeight := 0
	for row := 1; row < numRows; row++ {
		totalWeight += row
	}

	for len(placed) < count {
		pick := rand.Intn(totalWeight) + 1
		row := numRows - 1
		for r := 1; r < numRows; r++ {
			pick -= r
			if pick <= 0 {
				row = r
				break
			}
		}
		key := internal.CellKey{Category: rand.Intn(numCategories), Row: row}
		if _, dup := placed[key]; !dup {
			placed[key] = struct{}{}
		}
	}
	return placed
}

// buildBoard assembles the room-owned board state from provider content.
func buildBoard(r *content.Round, round int) *internal.BoardState {
	categories := make([]string, len(r.Categories))
	cells := make([][]*internal.Question, len(r.Categories))
	for i, cat := range r.Categories {
		categories[i] = cat.Name
		col := make([]*internal.Question, len(cat.Questions))
		for j := range cat.Questions {
			q := cat.Questions[j]
			q.Category = cat.Name
			q.Revealed = false
			if q.Value == 0 && j < len(r.Values) {
				q.Value = r.Values[j]
			}
			col[j] = &q
		}
		cells[i] = col
	}

	ddCount := 1
	if round >= 2 {
		ddCount = 2
	}

	return &internal.BoardState{
		Round:        round,
		Categories:   categories,
		Values:       r.Values,
		Cells:        cells,
		DailyDoubles: PlaceDailyDoubles(len(categories), len(r.Values), ddCount),
		Buzzes:       make(map[string]int64),
		BuzzOrder:    make([]string, 0),
		Attempted:    make(map[string]bool),
		Submissions:  make(map[string]*internal.Submission),
		Scored:       make(map[string]bool),
	}
}

// StartGame moves a waiting room into play: host-only, needs enough ready
// contestants. Content for round one is resolved before the room lock is
// taken; the room never blocks on the provider.
func (g *Registry) StartGame(room *internal.Room, sessionID string) bool {
	room.Mu.Lock()
	p := room.Players[sessionID]
	if p == nil || !p.Host || room.Phase != internal.PhaseWaiting {
		room.Mu.Unlock()
		return false
	}
	if len(room.Contestants()) < internal.MinPlayersToStart {
		room.Mu.Unlock()
		return false
	}
	if !room.AreAllPlayersReady() {
		room.Mu.Unlock()
		return false
	}
	room.Phase = internal.PhaseSetup
	room.Status = internal.StatusInProgress
	room.Mu.Unlock()

	log.Printf("[StartGame] room=%s: starting round 1", room.Code)
	return g.startRound(room, 1)
}

// startRound fetches and installs a board, then opens play. The first
// picker is random in round one and the lowest scorer in round two.
func (g *Registry) startRound(room *internal.Room, round int) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	roundContent, err := g.provider.Board(ctx, round)
	if err != nil {
		log.Printf("[startRound] room=%s: content for round %d failed: %v", room.Code, round, err)
		room.Mu.Lock()
		room.Phase = internal.PhaseWaiting
		room.Status = internal.StatusWaiting
		room.Mu.Unlock()
		return false
	}

	board := buildBoard(roundContent, round)

	room.Mu.Lock()
	contestants := room.Contestants()
	if len(contestants) == 0 {
		room.Mu.Unlock()
		return false
	}
	switch round {
	case 1:
		board.Picker = contestants[rand.Intn(len(contestants))].SessionID
	default:
		lowest := contestants[0]
		for _, c := range contestants[1:] {
			if c.Score < lowest.Score {
				lowest = c
			}
		}
		board.Picker = lowest.SessionID
	}
	cancelPhaseTimerLocked(room)
	room.Board = board
	room.Final = nil
	room.Phase = internal.PhasePlaying
	snap := room.BoardPublicSnapshot()
	room.Mu.Unlock()

	log.Printf("[startRound] room=%s: round %d live, picker=%s", room.Code, round, board.Picker)
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "round_started",
		Data: map[string]any{"round": round, "board": snap},
	})
	return true
}

// SelectQuestion opens a cell. Only the current picker may select, only
// while the board phase is open, and only for an unrevealed cell. Revealing
// is monotonic: selecting an already-revealed cell is a no-op.
func (g *Registry) SelectQuestion(room *internal.Room, sessionID string, category, row int) bool {
	room.Mu.Lock()
	b := room.Board
	if b == nil || room.Phase != internal.PhasePlaying || b.Picker != sessionID {
		room.Mu.Unlock()
		return false
	}
	if category < 0 || category >= len(b.Cells) || row < 0 || row >= len(b.Cells[category]) {
		room.Mu.Unlock()
		return false
	}
	q := b.Cells[category][row]
	if q == nil || q.Revealed {
		room.Mu.Unlock()
		return false
	}

	q.Revealed = true
	room.ResetQuestionState()
	cell := internal.CellKey{Category: category, Row: row}
	b.Active = &cell

	_, isDouble := b.DailyDoubles[cell]
	opened := internal.QuestionOpenedData{
		Cell:        cell,
		Category:    q.Category,
		Value:       q.Value,
		DailyDouble: isDouble,
		TimeLimitMs: int64(room.Settings.QuestionDuration) * 1000,
	}

	if isDouble {
		// The clue stays hidden until the picker declares a wager; the
		// public buzz race is suppressed for the whole cell.
		room.Phase = internal.PhaseDailyDouble
		startPhaseTimerLocked(room, dailyDoubleWagerWindow, func() {
			g.forceDailyDoubleWager(room, sessionID)
		})
		room.Mu.Unlock()
		log.Printf("[SelectQuestion] room=%s: daily double at (%d,%d) picker=%s",
			room.Code, category, row, sessionID)
		SafeBroadcastToRoom(room, internal.Message[any]{Type: "daily_double", Data: opened})
		return true
	}

	room.Phase = internal.PhaseQuestionActive
	opened.Clue = q.Clue
	if len(q.Options) > 0 {
		opened.Options = shuffledOptions(q.Options)
	}
	mode := room.Settings.AnswerMode
	if mode == internal.ModeVerbal {
		g.openBuzzWindowLocked(room)
	} else {
		duration := time.Duration(room.Settings.QuestionDuration) * time.Second
		startPhaseTimerLocked(room, duration, func() { g.closeCollection(room) })
	}
	room.Mu.Unlock()

	log.Printf("[SelectQuestion] room=%s: opened (%d,%d) value=%d mode=%s",
		room.Code, category, row, q.Value, mode)
	SafeBroadcastToRoom(room, internal.Message[any]{Type: "question_opened", Data: opened})
	return true
}

// shuffledOptions copies the authored options in a random display order so
// the canonical-correct-first ordering never leaks to clients.
func shuffledOptions(options []string) []string {
	out := append([]string(nil), options...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SkipQuestion closes the open cell with no score change. Host moderation.
func (g *Registry) SkipQuestion(room *internal.Room, sessionID string) bool {
	room.Mu.RLock()
	p := room.Players[sessionID]
	ok := p != nil && p.Host &&
		(room.Phase == internal.PhaseQuestionActive || room.Phase == internal.PhaseDailyDouble)
	room.Mu.RUnlock()
	if !ok {
		return false
	}
	g.closeQuestion(room, "skipped")
	return true
}

// closeQuestion ends the current question cycle: timer cancelled, transient
// state cleared, board reopened. The picker is unchanged unless a judging
// path already reassigned it.
func (g *Registry) closeQuestion(room *internal.Room, outcome string) {
	room.Mu.Lock()
	q := room.ActiveQuestion()
	if q == nil {
		room.Mu.Unlock()
		return
	}
	cell := *room.Board.Active
	cancelPhaseTimerLocked(room)
	room.ResetQuestionState()
	room.Phase = internal.PhasePlaying
	closed := internal.QuestionClosedData{
		Cell:    cell,
		Answer:  q.Answer,
		Outcome: outcome,
		Picker:  room.Board.Picker,
	}
	cleared := room.BoardCleared()
	room.Mu.Unlock()

	log.Printf("[closeQuestion] room=%s: cell=(%d,%d) outcome=%s", room.Code, cell.Category, cell.Row, outcome)
	SafeBroadcastToRoom(room, internal.Message[any]{Type: "question_closed", Data: closed})

	if cleared {
		go g.advanceRound(room)
	}
}

// questionTimedOut handles the no-answer branch: reveal the response, hold
// the board briefly, then continue. The picker retains the turn. Reached by
// the buzz-window countdown firing with no buzz and by exhausting every
// contestant on incorrect answers.
func (g *Registry) questionTimedOut(room *internal.Room, outcome string) {
	room.Mu.Lock()
	q := room.ActiveQuestion()
	if q == nil || (room.Phase != internal.PhaseQuestionActive && room.Phase != internal.PhaseDailyDouble) {
		room.Mu.Unlock()
		return
	}
	cell := *room.Board.Active
	room.Board.BuzzOpen = false
	room.Board.RevealPause = true
	closed := internal.QuestionClosedData{
		Cell:    cell,
		Answer:  q.Answer,
		Outcome: outcome,
		Picker:  room.Board.Picker,
	}
	startPhaseTimerLocked(room, internal.TimeoutRevealDuration, func() {
		g.TimeoutContinue(room, "")
	})
	room.Mu.Unlock()

	log.Printf("[questionTimedOut] room=%s: cell=(%d,%d) outcome=%s", room.Code, cell.Category, cell.Row, outcome)
	SafeBroadcastToRoom(room, internal.Message[any]{Type: "question_closed", Data: closed})
}

// TimeoutContinue returns the room to the open board after a timeout
// reveal. Players may trigger it early; an empty sessionID is the server's
// own reveal timer. Valid only inside the reveal pause set by
// questionTimedOut — a live question or an unwagered daily double cannot be
// dismissed through here.
func (g *Registry) TimeoutContinue(room *internal.Room, sessionID string) bool {
	room.Mu.Lock()
	if room.Board == nil || room.Board.Active == nil || !room.Board.RevealPause ||
		(room.Phase != internal.PhaseQuestionActive && room.Phase != internal.PhaseDailyDouble) {
		room.Mu.Unlock()
		return false
	}
	if sessionID != "" {
		p := room.Players[sessionID]
		if p == nil || (!p.Host && room.Board.Picker != sessionID) {
			room.Mu.Unlock()
			return false
		}
	}
	cancelPhaseTimerLocked(room)
	room.ResetQuestionState()
	room.Phase = internal.PhasePlaying
	picker := room.Board.Picker
	cleared := room.BoardCleared()
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "board_open",
		Data: map[string]any{"picker": picker},
	})
	if cleared {
		go g.advanceRound(room)
	}
	return true
}

// advanceRound runs when a board has no unrevealed cells left: into round
// two, the final round, or straight to the end depending on settings.
func (g *Registry) advanceRound(room *internal.Room) {
	room.Mu.Lock()
	if room.Board == nil || room.Phase != internal.PhasePlaying {
		room.Mu.Unlock()
		return
	}
	finished := room.Board.Round
	room.Phase = internal.PhaseRoundEnd
	cancelPhaseTimerLocked(room)
	doubleNext := finished == 1 && room.Settings.DoubleRound
	finalNext := room.Settings.FinalRound
	standings := room.PlayerSnapshots()
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "round_ended",
		Data: map[string]any{"round": finished, "players": standings},
	})

	switch {
	case doubleNext:
		g.startRound(room, 2)
	case finalNext:
		g.StartFinalJeopardy(room, "")
	default:
		g.finishGame(room)
	}
}

// finishGame ranks players, completes the room, and hands the standings to
// the persistence collaborator outside the room's critical path.
func (g *Registry) finishGame(room *internal.Room) {
	room.Mu.Lock()
	if room.Phase == internal.PhaseFinished {
		room.Mu.Unlock()
		return
	}
	cancelPhaseTimerLocked(room)
	room.Phase = internal.PhaseFinished
	room.Status = internal.StatusCompleted

	ranked := make([]internal.PlayerSnapshot, 0, len(room.Players))
	for _, p := range room.Players {
		if room.IsContestant(p) {
			ranked = append(ranked, p.Snapshot())
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	results := make([]store.PlayerResult, len(ranked))
	for i, p := range ranked {
		results[i] = store.PlayerResult{
			SessionID: p.SessionID,
			Name:      p.Name,
			Score:     p.Score,
			Placement: i + 1,
		}
	}
	code := room.Code
	room.Mu.Unlock()

	log.Printf("[finishGame] room=%s: game over, %d contestants", code, len(ranked))
	SafeBroadcastToRoom(room, internal.Message[any]{
		Type: "game_ended",
		Data: map[string]any{"leaderboard": ranked},
	})
	go g.persistResults(code, results)
}
