package contract

import (
	"context"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
)

// QueryHistoryRepository persists the append-only query log of a session.
// Records come back in insertion order.
type QueryHistoryRepository interface {
	Append(ctx context.Context, record *entity.QueryRecord) error
	FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.QueryRecord, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
