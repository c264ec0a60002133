package internal

// Message is the envelope for every real-time event in both directions.
// Data is decoded into the fixed payload struct for the tag; payloads that
// do not match their tag's shape are rejected by the transport layer.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Client -> server payloads.

type CreateRoomData struct {
	RoomType  RoomType      `json:"room_type"`
	Name      string        `json:"name"`
	Signature string        `json:"signature,omitempty"`
	Settings  *RoomSettings `json:"settings,omitempty"`
}

type JoinRoomData struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

type ReadyData struct {
	Ready bool `json:"ready"`
}

type UpdateSettingsData struct {
	Settings RoomSettings `json:"settings"`
}

type SelectQuestionData struct {
	Category int `json:"category"`
	Row      int `json:"row"`
}

type BuzzData struct {
	ReactionMs int64 `json:"reaction_ms"`
}

type SubmitAnswerData struct {
	Text   string `json:"text,omitempty"`
	Option int    `json:"option"` // MC option index, -1 when unused
}

type WagerData struct {
	Amount int `json:"amount"`
}

type JudgeAnswerData struct {
	SessionID string `json:"session_id"`
	Correct   bool   `json:"correct"`
}

type OverrideScoreData struct {
	SessionID string `json:"session_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

type KickPlayerData struct {
	SessionID string `json:"session_id"`
}

type JoinQueueData struct {
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

// Server -> client payloads.

type ErrorData struct {
	Code    string `json:"code"` // validation | authorization | not-found | resource-exhausted
	Message string `json:"message"`
}

type AckData struct {
	Event string `json:"event"`
	OK    bool   `json:"ok"`
}

type RoomSnapshotData struct {
	Code     string           `json:"code"`
	Type     RoomType         `json:"type"`
	Status   RoomStatus       `json:"status"`
	Phase    GamePhase        `json:"phase"`
	Settings RoomSettings     `json:"settings"`
	Players  []PlayerSnapshot `json:"players"`
	Board    *BoardSnapshot   `json:"board,omitempty"`
	You      string           `json:"you"`
}

type BoardSnapshot struct {
	Round      int        `json:"round"`
	Categories []string   `json:"categories"`
	Values     []int      `json:"values"`
	Revealed   [][]bool   `json:"revealed"`
	Picker     string     `json:"picker"`
	Active     *CellKey   `json:"active,omitempty"`
	ActiveClue string     `json:"active_clue,omitempty"`
	Options    []string   `json:"options,omitempty"`
	BuzzOpen   bool       `json:"buzz_open"`
	BuzzWinner string     `json:"buzz_winner,omitempty"`
}

type QuestionOpenedData struct {
	Cell        CellKey  `json:"cell"`
	Category    string   `json:"category"`
	Value       int      `json:"value"`
	Clue        string   `json:"clue"`
	Options     []string `json:"options,omitempty"`
	DailyDouble bool     `json:"daily_double"`
	TimeLimitMs int64    `json:"time_limit_ms"`
}

type BuzzResultData struct {
	Winner     string `json:"winner"`
	Name       string `json:"name"`
	ReactionMs int64  `json:"reaction_ms"`
}

type JudgeResultData struct {
	SessionID  string  `json:"session_id"`
	Name       string  `json:"name"`
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence,omitempty"`
	Delta      int     `json:"delta"`
	Score      int     `json:"score"`
	Answer     string  `json:"answer,omitempty"`
}

type QuestionClosedData struct {
	Cell    CellKey `json:"cell"`
	Answer  string  `json:"answer"`
	Outcome string  `json:"outcome"` // answered | exhausted | timeout | skipped
	Picker  string  `json:"picker"`
}

type TimerUpdateData struct {
	TimeRemaining int64     `json:"time_remaining_ms"`
	Phase         GamePhase `json:"phase"`
	IsActive      bool      `json:"is_active"`
}

type FinalStartedData struct {
	Category string   `json:"category"`
	Eligible []string `json:"eligible"`
}

type FinalClueData struct {
	Clue string `json:"clue"`
}

type FinalResultsData struct {
	Results []FinalResult `json:"results"`
}

type MatchFoundData struct {
	Code string `json:"code"`
}
