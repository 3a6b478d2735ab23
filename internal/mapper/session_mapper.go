package mapper

import (
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToStatusResponse(s *entity.Session) *dto.StatusResponse {
	resp := &dto.StatusResponse{
		Status:  s.Status,
		Message: s.Message,
	}
	if s.Status == entity.SessionStatusError && s.ErrorMessage != "" {
		resp.Message = s.ErrorMessage
	}
	if s.Progress != nil {
		resp.Progress = &dto.ProgressDTO{
			Step:            s.Progress.Step,
			ProcessedFiles:  s.Progress.ProcessedFiles,
			TotalFiles:      s.Progress.TotalFiles,
			ProcessedChunks: s.Progress.ProcessedChunks,
			TotalChunks:     s.Progress.TotalChunks,
		}
	}
	return resp
}

func (m *SessionMapper) ToSummary(s *entity.Session) dto.SessionSummary {
	return dto.SessionSummary{
		Id:          s.Id,
		RepoURL:     s.RepoURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		TotalFiles:  s.TotalFiles,
		TotalChunks: s.TotalChunks,
	}
}

func (m *SessionMapper) ToListResponse(sessions []*entity.Session) *dto.ListSessionsResponse {
	breakdown := make(map[string]int)
	summaries := make([]dto.SessionSummary, len(sessions))
	for i, s := range sessions {
		breakdown[string(s.Status)]++
		summaries[i] = m.ToSummary(s)
	}
	return &dto.ListSessionsResponse{
		TotalSessions:   len(sessions),
		StatusBreakdown: breakdown,
		Sessions:        summaries,
	}
}
