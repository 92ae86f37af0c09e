package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

type TurnArchiveRepository interface {
	// Create stores the turn once; a repeat of the same session and turn
	// id is ignored.
	Create(ctx context.Context, turn *entity.TurnArchive) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TurnArchive, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
