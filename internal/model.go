package internal

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	RoomCodeLength    = 6
	DefaultMaxPlayers = 6
	MinPlayersToStart = 2
	MaxRoomAge        = 24 * time.Hour

	DefaultQuestionDuration = 30 * time.Second
	BuzzWindowDuration      = 10 * time.Second
	TimeoutRevealDuration   = 5 * time.Second

	BoardCategories = 6
	BoardRows       = 5
)

type GamePhase string

const (
	PhaseWaiting        GamePhase = "waiting"
	PhaseSetup          GamePhase = "setup"
	PhasePlaying        GamePhase = "playing"
	PhaseQuestionActive GamePhase = "questionActive"
	PhaseDailyDouble    GamePhase = "dailyDouble"
	PhaseRoundEnd       GamePhase = "roundEnd"
	PhaseFinalJeopardy  GamePhase = "finalJeopardy"
	PhaseFinished       GamePhase = "finished"
)

type RoomType string

const (
	RoomCasual  RoomType = "casual"
	RoomPrivate RoomType = "private"
	RoomHosted  RoomType = "hosted"
)

type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"
	StatusInProgress RoomStatus = "in-progress"
	StatusCompleted  RoomStatus = "completed"
)

type AnswerMode string

const (
	ModeVerbal    AnswerMode = "verbal"
	ModeTyped     AnswerMode = "typed"
	ModeMultiple  AnswerMode = "multipleChoice"
	ModeAutograde AnswerMode = "autograde"
)

type RoomSettings struct {
	MaxPlayers       int        `json:"max_players"`
	QuestionDuration int        `json:"question_seconds"`
	AnswerMode       AnswerMode `json:"answer_mode"`
	DoubleRound      bool       `json:"double_round"`
	FinalRound       bool       `json:"final_round"`
}

// DefaultSettings returns the baseline settings a room is created with
// before caller overrides are merged in.
func DefaultSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:       DefaultMaxPlayers,
		QuestionDuration: int(DefaultQuestionDuration.Seconds()),
		AnswerMode:       ModeAutograde,
		DoubleRound:      true,
		FinalRound:       true,
	}
}

// CellKey addresses a single board cell as (category index, row index).
type CellKey struct {
	Category int `json:"category"`
	Row      int `json:"row"`
}

type Question struct {
	Category string   `json:"category"`
	Value    int      `json:"value"`
	Clue     string   `json:"clue"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options,omitempty"` // Options[0] is the correct one
	Revealed bool     `json:"revealed"`
}

// Submission is one player's answer for the currently open question.
// Correct stays nil until a judging path grades it.
type Submission struct {
	SessionID   string    `json:"session_id"`
	Text        string    `json:"text,omitempty"`
	Option      int       `json:"option"` // MC option index, -1 when unused
	Correct     *bool     `json:"correct,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// BoardState is the per-round grid plus the transient per-question state
// (buzzes, submissions, wager). Transient fields are cleared on every
// question cycle; Revealed flags are monotonic for the round.
type BoardState struct {
	Round      int          `json:"round"`
	Categories []string     `json:"categories"`
	Values     []int        `json:"values"`
	Cells      [][]*Question `json:"cells"` // Cells[category][row]

	Picker       string                `json:"picker"`
	DailyDoubles map[CellKey]struct{}  `json:"-"`

	Active      *CellKey               `json:"active,omitempty"`
	Wager       int                    `json:"wager,omitempty"`
	BuzzOpen    bool                   `json:"buzz_open"`
	RevealPause bool                   `json:"reveal_pause"` // answer shown, board held
	Buzzes      map[string]int64       `json:"-"` // session id -> reported reaction ms
	BuzzOrder   []string               `json:"-"` // server arrival order, used for tie-break
	BuzzWinner  string                 `json:"buzz_winner,omitempty"`
	Attempted   map[string]bool        `json:"-"` // judged incorrect on this question
	Submissions map[string]*Submission `json:"-"`
	Scored      map[string]bool        `json:"-"` // sessions already scored for the active cell
}

// FinalState exists only during the final phase. Eligible is fixed at phase
// entry and never changes mid-phase.
type FinalState struct {
	Category string              `json:"category"`
	Clue     string              `json:"clue"`
	Answer   string              `json:"-"`
	Eligible map[string]struct{} `json:"-"`
	Wagers   map[string]int      `json:"-"`
	Answers  map[string]string   `json:"-"`
	ClueSent bool                `json:"clue_sent"`
	Results  []FinalResult       `json:"results,omitempty"`
}

type FinalResult struct {
	SessionID  string  `json:"session_id"`
	Name       string  `json:"name"`
	Wager      int     `json:"wager"`
	Answer     string  `json:"answer"`
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence"`
	FinalScore int     `json:"final_score"`
}

// ScoreEntry records one authorized score mutation, including host
// overrides, so a player's score always equals the sum of their entries.
type ScoreEntry struct {
	SessionID string    `json:"session_id"`
	Cell      *CellKey  `json:"cell,omitempty"`
	Delta     int       `json:"delta"`
	Previous  int       `json:"previous"`
	Updated   int       `json:"updated"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

type GameTimer struct {
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	IsActive  bool          `json:"is_active"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
}

type Room struct {
	Code      string       `json:"code"`
	Type      RoomType     `json:"type"`
	Creator   string       `json:"creator"`
	Status    RoomStatus   `json:"status"`
	Phase     GamePhase    `json:"phase"`
	Settings  RoomSettings `json:"settings"`
	CreatedAt time.Time    `json:"created_at"`

	Players map[string]*Player `json:"-"` // keyed by durable session id

	Board *BoardState `json:"board,omitempty"`
	Final *FinalState `json:"final,omitempty"`

	ScoreLog []ScoreEntry `json:"-"`

	// Timer is the single scheduled countdown for the current phase or
	// question instance. Every phase transition cancels and replaces it.
	Timer *GameTimer `json:"-"`

	Mu sync.RWMutex `json:"-"`
}

type Player struct {
	SessionID string          `json:"session_id"`
	ConnID    string          `json:"-"`
	Conn      *websocket.Conn `json:"-"`
	Name      string          `json:"name"`
	Signature string          `json:"signature,omitempty"`
	Score     int             `json:"score"`
	Ready     bool            `json:"ready"`
	Connected bool            `json:"connected"`
	Host      bool            `json:"host"`
	JoinedAt  time.Time       `json:"joined_at"`

	WriteMu sync.Mutex `json:"-"`
}
