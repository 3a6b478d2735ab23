package implementation

import (
	"context"

	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/mapper"
	"gitsleuth-be/internal/model"
	"gitsleuth-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueryHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QueryRecordMapper
}

func NewQueryHistoryRepository(db *gorm.DB) contract.QueryHistoryRepository {
	return &QueryHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewQueryRecordMapper(),
	}
}

func (r *QueryHistoryRepositoryImpl) Append(ctx context.Context, record *entity.QueryRecord) error {
	m, err := r.mapper.ToModel(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *QueryHistoryRepositoryImpl) FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.QueryRecord, error) {
	var models []*model.QueryRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	records := make([]*entity.QueryRecord, len(models))
	for i, m := range models {
		if records[i], err = r.mapper.ToEntity(m); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *QueryHistoryRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Delete(&model.QueryRecord{}).Error
}
