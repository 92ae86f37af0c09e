package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type TurnArchiveMapper struct{}

func NewTurnArchiveMapper() *TurnArchiveMapper {
	return &TurnArchiveMapper{}
}

type turnArchiveMetadata struct {
	Mode       string `json:"mode,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func (m *TurnArchiveMapper) ToEntity(t *model.TurnArchive) *entity.TurnArchive {
	if t == nil {
		return nil
	}

	var meta turnArchiveMetadata
	if len(t.Metadata) > 0 {
		_ = json.Unmarshal(t.Metadata, &meta)
	}

	return &entity.TurnArchive{
		Id:            t.Id,
		SessionId:     t.SessionId,
		TurnId:        t.TurnId,
		UserId:        t.UserId,
		UserText:      t.UserText,
		ResponseText:  t.ResponseText,
		ResponseState: t.ResponseState,
		Kind:          t.Kind,
		Mode:          meta.Mode,
		DurationMs:    meta.DurationMs,
		StartedAt:     t.StartedAt,
		FinishedAt:    t.FinishedAt,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TurnArchiveMapper) ToModel(t *entity.TurnArchive) *model.TurnArchive {
	if t == nil {
		return nil
	}

	meta, _ := json.Marshal(turnArchiveMetadata{
		Mode:       t.Mode,
		DurationMs: t.DurationMs,
	})

	return &model.TurnArchive{
		Id:            t.Id,
		SessionId:     t.SessionId,
		TurnId:        t.TurnId,
		UserId:        t.UserId,
		UserText:      t.UserText,
		ResponseText:  t.ResponseText,
		ResponseState: t.ResponseState,
		Kind:          t.Kind,
		Metadata:      datatypes.JSON(meta),
		StartedAt:     t.StartedAt,
		FinishedAt:    t.FinishedAt,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TurnArchiveMapper) ToEntities(models []*model.TurnArchive) []*entity.TurnArchive {
	entities := make([]*entity.TurnArchive, len(models))
	for i, t := range models {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
