package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/repository/contract"
)

type QueryHistoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]*entity.QueryRecord
}

func NewQueryHistoryRepository() *QueryHistoryRepository {
	return &QueryHistoryRepository{
		records: make(map[uuid.UUID][]*entity.QueryRecord),
	}
}

var _ contract.QueryHistoryRepository = &QueryHistoryRepository{}

func (r *QueryHistoryRepository) Append(ctx context.Context, record *entity.QueryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.SessionId] = append(r.records[record.SessionId], record)
	return nil
}

func (r *QueryHistoryRepository) FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.QueryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.records[sessionId]
	out := make([]*entity.QueryRecord, len(records))
	copy(out, records)
	return out, nil
}

func (r *QueryHistoryRepository) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sessionId)
	return nil
}
