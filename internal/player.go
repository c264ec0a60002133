package internal

import "errors"

var ErrNotConnected = errors.New("player has no live connection")

type PlayerSnapshot struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	Host      bool   `json:"host"`
}

func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		SessionID: p.SessionID,
		Name:      p.Name,
		Signature: p.Signature,
		Score:     p.Score,
		Ready:     p.Ready,
		Connected: p.Connected,
		Host:      p.Host,
	}
}

// SafeWriteJSON serializes writes to the player's websocket so concurrent
// broadcasts never interleave frames on one connection.
func (p *Player) SafeWriteJSON(v any) error {
	p.WriteMu.Lock()
	defer p.WriteMu.Unlock()
	if p.Conn == nil {
		return ErrNotConnected
	}
	return p.Conn.WriteJSON(v)
}
