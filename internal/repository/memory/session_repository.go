package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/repository/contract"
)

// SessionRepository keeps session records in a go-cache store so finished
// sessions expire on their own after the configured TTL. Expired sessions
// are purged every 10 minutes.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

var _ contract.SessionRepository = &SessionRepository{}

// cloneSession copies a session including its progress snapshot, so callers
// on both sides of the cache never share mutable state.
func cloneSession(s *entity.Session) *entity.Session {
	c := *s
	if s.Progress != nil {
		p := *s.Progress
		c.Progress = &p
	}
	return &c
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.cache.Set(session.Id.String(), cloneSession(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	if x, found := r.cache.Get(id.String()); found {
		return cloneSession(x.(*entity.Session)), nil
	}
	return nil, apperrors.NotFound("session not found")
}

func (r *SessionRepository) FindAll(ctx context.Context) ([]*entity.Session, error) {
	items := r.cache.Items()
	sessions := make([]*entity.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, cloneSession(item.Object.(*entity.Session)))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.cache.Delete(id.String())
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}
