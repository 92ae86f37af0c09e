package entity

import (
	"time"

	"github.com/google/uuid"
)

type TurnArchive struct {
	Id            uuid.UUID
	SessionId     string
	TurnId        int64
	UserId        string
	UserText      string
	ResponseText  string
	ResponseState string
	Kind          string
	Mode          string
	DurationMs    int64
	StartedAt     time.Time
	FinishedAt    time.Time
	CreatedAt     time.Time
}
