package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnArchiveRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TurnArchiveMapper
}

func NewTurnArchiveRepository(db *gorm.DB) contract.TurnArchiveRepository {
	return &TurnArchiveRepositoryImpl{
		db:     db,
		mapper: mapper.NewTurnArchiveMapper(),
	}
}

func (r *TurnArchiveRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TurnArchiveRepositoryImpl) Create(ctx context.Context, turn *entity.TurnArchive) error {
	m := r.mapper.ToModel(turn)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "turn_id"}},
			DoNothing: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *TurnArchiveRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TurnArchive, error) {
	var models []*model.TurnArchive
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TurnArchiveRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TurnArchive{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
