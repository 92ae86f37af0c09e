package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TurnArchive struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string         `gorm:"type:text;not null;uniqueIndex:idx_turn_archive_session_turn"`
	TurnId        int64          `gorm:"not null;uniqueIndex:idx_turn_archive_session_turn"`
	UserId        string         `gorm:"type:text;index"`
	UserText      string         `gorm:"type:text;not null"`
	ResponseText  string         `gorm:"type:text;not null"`
	ResponseState string         `gorm:"type:varchar(16);not null;index"`
	Kind          string         `gorm:"type:varchar(16);not null"`
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	StartedAt     time.Time      `gorm:"not null"`
	FinishedAt    time.Time      `gorm:"not null;index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (TurnArchive) TableName() string {
	return "assistant_turn_archive"
}
