package mapper

import (
	"encoding/json"

	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/model"

	"gorm.io/datatypes"
)

type QueryRecordMapper struct{}

func NewQueryRecordMapper() *QueryRecordMapper {
	return &QueryRecordMapper{}
}

func (m *QueryRecordMapper) ToEntity(e *model.QueryRecord) (*entity.QueryRecord, error) {
	if e == nil {
		return nil, nil
	}
	var sources []entity.SourceReference
	if len(e.Sources) > 0 {
		if err := json.Unmarshal(e.Sources, &sources); err != nil {
			return nil, err
		}
	}
	return &entity.QueryRecord{
		Id:         e.Id,
		SessionId:  e.SessionId,
		Question:   e.Question,
		Answer:     e.Answer,
		Sources:    sources,
		Confidence: entity.Confidence(e.Confidence),
		CreatedAt:  e.CreatedAt,
	}, nil
}

func (m *QueryRecordMapper) ToModel(e *entity.QueryRecord) (*model.QueryRecord, error) {
	if e == nil {
		return nil, nil
	}
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return nil, err
	}
	return &model.QueryRecord{
		Id:         e.Id,
		SessionId:  e.SessionId,
		Question:   e.Question,
		Answer:     e.Answer,
		Sources:    datatypes.JSON(sources),
		Confidence: string(e.Confidence),
		CreatedAt:  e.CreatedAt,
	}, nil
}
