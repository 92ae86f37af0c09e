package events

import (
	"encoding/json"
	"fmt"
	"time"

	"ai-assistant-be/pkg/transcript"
)

const TurnFinished = "TURN_FINISHED"

// TurnFinishedPayload is a Turn that reached a terminal state.
type TurnFinishedPayload struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id,omitempty"`
	Mode          string `json:"mode"`
	TurnID        int64  `json:"turn_id"`
	UserText      string `json:"user_text"`
	ResponseText  string `json:"response_text"`
	ResponseState string `json:"response_state"`
	Kind          string `json:"kind"`
	StartedAt     int64  `json:"started_at"`
	FinishedAt    int64  `json:"finished_at"`
}

func NewTurnFinished(sessionID, userID, mode string, turn transcript.Turn) BaseEvent {
	p := TurnFinishedPayload{
		SessionID:     sessionID,
		UserID:        userID,
		Mode:          mode,
		TurnID:        turn.ID,
		UserText:      turn.UserText,
		ResponseText:  turn.ResponseText,
		ResponseState: string(turn.ResponseState),
		Kind:          string(turn.Kind),
		StartedAt:     turn.CreatedAt.UnixMilli(),
		FinishedAt:    turn.UpdatedAt.UnixMilli(),
	}
	return NewEvent(TurnFinished, p.toMap(), turn.UpdatedAt)
}

func (p TurnFinishedPayload) toMap() map[string]interface{} {
	raw, _ := json.Marshal(p)
	var m map[string]interface{}
	_ = json.Unmarshal(raw, &m)
	return m
}

// ParseTurnFinished decodes the payload of a TURN_FINISHED event.
func ParseTurnFinished(e Event) (*TurnFinishedPayload, error) {
	if e.EventType() != TurnFinished {
		return nil, fmt.Errorf("unexpected event type %q", e.EventType())
	}
	raw, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var p TurnFinishedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.SessionID == "" || p.TurnID == 0 {
		return nil, fmt.Errorf("incomplete %s payload", TurnFinished)
	}
	return &p, nil
}

func (p *TurnFinishedPayload) Started() time.Time  { return time.UnixMilli(p.StartedAt) }
func (p *TurnFinishedPayload) Finished() time.Time { return time.UnixMilli(p.FinishedAt) }
