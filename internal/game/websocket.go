package game

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWebSocket is the single realtime endpoint. The client presents its
// durable session id as a query parameter; a missing one gets minted here
// and echoed back so the client can persist it for reconnection. Each
// socket gets its own connection id so a stale close can never clobber a
// newer connection for the same session.
func (g *Registry) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	connID := uuid.NewString()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// shell carries acks and errors for a socket that is not in a room yet.
	shell := &internal.Player{
		SessionID: sessionID,
		ConnID:    connID,
		Conn:      conn,
		Connected: true,
	}
	if err := shell.SafeWriteJSON(internal.Message[any]{
		Type: "hello",
		Data: map[string]any{"session_id": sessionID},
	}); err != nil {
		log.Printf("[HandleWebSocket] hello to %s failed: %v", sessionID, err)
		return
	}

	if _, ok := g.Reconnect(sessionID, connID, conn); ok {
		log.Printf("[HandleWebSocket] session=%s reconnected on conn=%s", sessionID, connID)
	}
	defer g.Disconnect(sessionID, connID)

	for {
		var env internal.Message[json.RawMessage]
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[HandleWebSocket] session=%s read error: %v", sessionID, err)
			}
			return
		}
		g.dispatch(shell, sessionID, connID, conn, env)
	}
}

// requester resolves the in-room player for a session, falling back to the
// socket shell for sessions not yet seated anywhere.
func (g *Registry) requester(shell *internal.Player, sessionID string) *internal.Player {
	room := g.RoomForSession(sessionID)
	if room == nil {
		return shell
	}
	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if p, ok := room.Players[sessionID]; ok {
		return p
	}
	return shell
}

func decodePayload[T any](raw json.RawMessage, out *T) bool {
	return json.Unmarshal(raw, out) == nil
}

// dispatch routes one decoded envelope. Every request is answered on the
// requesting socket: an ack on success, a coded error otherwise; game state
// changes reach the rest of the room through broadcasts.
func (g *Registry) dispatch(shell *internal.Player, sessionID, connID string, conn *websocket.Conn, env internal.Message[json.RawMessage]) {
	p := g.requester(shell, sessionID)
	room := g.RoomForSession(sessionID)

	switch env.Type {
	case "create_room":
		var d internal.CreateRoomData
		if !decodePayload(env.Data, &d) {
			sendError(p, "validation", "malformed create_room payload")
			return
		}
		if room != nil {
			sendError(p, "validation", "already in a room")
			return
		}
		creator := g.newSeat(sessionID, connID, conn, d.Name, d.Signature)
		created, err := g.CreateRoom(d.RoomType, creator, d.Settings)
		if err != nil {
			sendError(creator, errorCode(err), err.Error())
			return
		}
		g.sendSnapshot(created, creator)
		sendAck(creator, env.Type, true)

	case "join_room":
		var d internal.JoinRoomData
		if !decodePayload(env.Data, &d) {
			sendError(p, "validation", "malformed join_room payload")
			return
		}
		joiner := g.newSeat(sessionID, connID, conn, d.Name, d.Signature)
		if _, err := g.JoinRoom(d.Code, joiner); err != nil {
			sendError(joiner, errorCode(err), err.Error())
			return
		}
		sendAck(joiner, env.Type, true)

	case "leave_room":
		if err := g.LeaveRoom(sessionID); err != nil {
			sendError(p, errorCode(err), err.Error())
			return
		}
		sendAck(shell, env.Type, true)

	case "ready":
		var d internal.ReadyData
		if room == nil || !decodePayload(env.Data, &d) || !g.SetReady(room, sessionID, d.Ready) {
			sendError(p, "validation", "cannot set ready state")
			return
		}
		sendAck(p, env.Type, true)

	case "update_settings":
		var d internal.UpdateSettingsData
		if room == nil || !decodePayload(env.Data, &d) || !g.UpdateSettings(room, sessionID, d.Settings) {
			sendError(p, "authorization", "cannot update settings")
			return
		}
		sendAck(p, env.Type, true)

	case "start_game":
		if room == nil || !g.StartGame(room, sessionID) {
			sendError(p, "validation", "cannot start game")
			return
		}
		sendAck(p, env.Type, true)

	case "select_question":
		var d internal.SelectQuestionData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SelectQuestion(room, sessionID, d.Category, d.Row) {
			sendError(p, "validation", "cannot select that question")
			return
		}
		sendAck(p, env.Type, true)

	case "buzz_in":
		var d internal.BuzzData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.RecordBuzz(room, sessionID, d.ReactionMs) {
			sendError(p, "validation", "buzz rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "submit_answer":
		var d internal.SubmitAnswerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SubmitAnswer(room, sessionID, d.Text, d.Option) {
			sendError(p, "validation", "answer rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "daily_double_wager":
		var d internal.WagerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SubmitDailyDoubleWager(room, sessionID, d.Amount) {
			sendError(p, "validation", "wager rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "daily_double_answer":
		var d internal.SubmitAnswerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SubmitDailyDoubleAnswer(room, sessionID, d.Text) {
			sendError(p, "validation", "answer rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "start_final_jeopardy":
		if room == nil || !g.StartFinalJeopardy(room, sessionID) {
			sendError(p, "authorization", "cannot start the final round")
			return
		}
		sendAck(p, env.Type, true)

	case "final_wager":
		var d internal.WagerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SubmitFinalWager(room, sessionID, d.Amount) {
			sendError(p, "validation", "wager rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "final_answer":
		var d internal.SubmitAnswerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.SubmitFinalAnswer(room, sessionID, d.Text) {
			sendError(p, "validation", "answer rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "timeout_continue":
		if room == nil || !g.TimeoutContinue(room, sessionID) {
			sendError(p, "validation", "nothing to continue")
			return
		}
		sendAck(p, env.Type, true)

	case "judge_answer":
		var d internal.JudgeAnswerData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.JudgeAnswer(room, sessionID, d.SessionID, d.Correct) {
			sendError(p, "authorization", "verdict rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "skip_question":
		if room == nil || !g.SkipQuestion(room, sessionID) {
			sendError(p, "authorization", "cannot skip")
			return
		}
		sendAck(p, env.Type, true)

	case "override_score":
		var d internal.OverrideScoreData
		if room == nil || !decodePayload(env.Data, &d) ||
			!g.OverrideScore(room, sessionID, d.SessionID, d.Delta, d.Reason) {
			sendError(p, "authorization", "override rejected")
			return
		}
		sendAck(p, env.Type, true)

	case "kick_player":
		var d internal.KickPlayerData
		if !decodePayload(env.Data, &d) {
			sendError(p, "validation", "malformed kick_player payload")
			return
		}
		if err := g.KickPlayer(sessionID, d.SessionID); err != nil {
			sendError(p, errorCode(err), err.Error())
			return
		}
		sendAck(p, env.Type, true)

	case "open_buzzer":
		if room == nil || !g.OpenBuzzer(room, sessionID) {
			sendError(p, "authorization", "cannot open the buzzer")
			return
		}
		sendAck(p, env.Type, true)

	case "close_buzzer":
		if room == nil || !g.CloseBuzzer(room, sessionID) {
			sendError(p, "authorization", "cannot close the buzzer")
			return
		}
		sendAck(p, env.Type, true)

	case "join_queue":
		var d internal.JoinQueueData
		if !decodePayload(env.Data, &d) {
			sendError(p, "validation", "malformed join_queue payload")
			return
		}
		seat := g.newSeat(sessionID, connID, conn, d.Name, d.Signature)
		if err := g.JoinQueue(seat); err != nil {
			sendError(seat, errorCode(err), err.Error())
			return
		}
		sendAck(seat, env.Type, true)

	case "leave_queue":
		if !g.LeaveQueue(sessionID) {
			sendError(p, "not-found", "not in the queue")
			return
		}
		sendAck(p, env.Type, true)

	default:
		log.Printf("[dispatch] session=%s unknown event %q", sessionID, env.Type)
		sendError(p, "validation", "unknown event type")
	}
}

// newSeat builds the player record a socket claims when creating, joining,
// or queueing. Display names fall back to a session-derived default.
func (g *Registry) newSeat(sessionID, connID string, conn *websocket.Conn, name, signature string) *internal.Player {
	if name == "" {
		short := sessionID
		if len(short) > 8 {
			short = short[:8]
		}
		name = "player-" + short
	}
	return &internal.Player{
		SessionID: sessionID,
		ConnID:    connID,
		Conn:      conn,
		Name:      name,
		Signature: signature,
		Connected: true,
	}
}

// errorCode maps service errors onto the wire-level error code vocabulary.
func errorCode(err error) string {
	switch err {
	case ErrRoomNotFound, ErrPlayerNotFound:
		return "not-found"
	case ErrNotHost, ErrSelfKick:
		return "authorization"
	case ErrRoomFull, ErrCodeExhausted:
		return "resource-exhausted"
	default:
		return "validation"
	}
}
