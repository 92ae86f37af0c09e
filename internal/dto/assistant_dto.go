package dto

import (
	"time"
)

type CreateSessionResponse struct {
	Id   string `json:"id"`
	Mode string `json:"mode"`
}

type SessionResponse struct {
	Id      string         `json:"id"`
	Mode    string         `json:"mode"`
	Loading bool           `json:"loading"`
	Turns   []TurnResponse `json:"turns"`
}

type TurnResponse struct {
	Id            int64     `json:"id"`
	UserText      string    `json:"user_text"`
	ResponseText  string    `json:"response_text"`
	ResponseState string    `json:"response_state"`
	Kind          string    `json:"kind"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Blank text is accepted here and ignored by the session.
type SubmitMessageRequest struct {
	Text string `json:"text" validate:"max=8000"`
}

type SubmitMessageResponse struct {
	Status string `json:"status"`
}

type UploadFileResponse struct {
	Status string `json:"status"`
}

type StopResponse struct {
	Stopped bool `json:"stopped"`
}

type ModeResponse struct {
	Mode string `json:"mode"`
}

type ArchiveQueryRequest struct {
	SessionId string `query:"session_id"`
	State     string `query:"state" validate:"omitempty,oneof=complete errored"`
	Kind      string `query:"kind" validate:"omitempty,oneof=chat brainstorm news image document"`
	Since     string `query:"since" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	PageSize  int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type ArchivedTurnResponse struct {
	Id            string    `json:"id"`
	SessionId     string    `json:"session_id"`
	TurnId        int64     `json:"turn_id"`
	UserText      string    `json:"user_text"`
	ResponseText  string    `json:"response_text"`
	ResponseState string    `json:"response_state"`
	Kind          string    `json:"kind"`
	Mode          string    `json:"mode"`
	DurationMs    int64     `json:"duration_ms"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

type ArchivePageResponse struct {
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Items []ArchivedTurnResponse `json:"items"`
}
