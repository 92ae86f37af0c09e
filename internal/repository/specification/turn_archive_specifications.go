package specification

import (
	"time"

	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByResponseState struct {
	State string
}

func (s ByResponseState) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("response_state = ?", s.State)
}

// FinishedSince keeps turns finished at or after Since.
type FinishedSince struct {
	Since time.Time
}

func (s FinishedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("finished_at >= ?", s.Since)
}
