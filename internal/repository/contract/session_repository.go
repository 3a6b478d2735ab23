package contract

import (
	"context"

	"gitsleuth-be/internal/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	FindAll(ctx context.Context) ([]*entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
