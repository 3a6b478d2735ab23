package mapper

import (
	"github.com/google/uuid"

	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
)

type QueryMapper struct{}

func NewQueryMapper() *QueryMapper {
	return &QueryMapper{}
}

func (m *QueryMapper) ToSourceDTOs(sources []entity.SourceReference) []dto.SourceReferenceDTO {
	out := make([]dto.SourceReferenceDTO, len(sources))
	for i, s := range sources {
		out[i] = dto.SourceReferenceDTO{
			File:      s.File,
			Snippet:   s.Snippet,
			LineStart: s.LineStart,
			LineEnd:   s.LineEnd,
		}
	}
	return out
}

func (m *QueryMapper) ToQueryResponse(record *entity.QueryRecord) *dto.QueryResponse {
	return &dto.QueryResponse{
		Answer:     record.Answer,
		Sources:    m.ToSourceDTOs(record.Sources),
		Confidence: record.Confidence,
	}
}

func (m *QueryMapper) ToHistoryResponse(sessionId uuid.UUID, records []*entity.QueryRecord) *dto.QueryHistoryResponse {
	items := make([]dto.QueryHistoryItem, len(records))
	for i, r := range records {
		items[i] = dto.QueryHistoryItem{
			Id:         r.Id,
			Question:   r.Question,
			Answer:     r.Answer,
			Sources:    m.ToSourceDTOs(r.Sources),
			Confidence: r.Confidence,
			CreatedAt:  r.CreatedAt,
		}
	}
	return &dto.QueryHistoryResponse{
		SessionId: sessionId,
		History:   items,
	}
}
