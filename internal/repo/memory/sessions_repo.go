package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/staffhub/internal/auth"
)

type SessionsRepo struct {
	mu    sync.Mutex
	items map[string]auth.Session
}

func NewSessionsRepo() *SessionsRepo {
	return &SessionsRepo{items: make(map[string]auth.Session)}
}

func (r *SessionsRepo) Save(ctx context.Context, s auth.Session) error {
	r.mu.Lock()
	r.items[s.ID] = s
	r.mu.Unlock()

	return nil
}

func (r *SessionsRepo) Rotate(ctx context.Context, oldID string, check func(auth.Session) error, next auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[oldID]
	if !ok {
		return auth.ErrSessionNotFound
	}

	if err := check(old); err != nil {
		return err
	}

	now := time.Now().UTC()
	old.RevokedAt = &now
	old.ReplacedBy = &next.ID
	r.items[oldID] = old
	r.items[next.ID] = next

	return nil
}

func (r *SessionsRepo) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.RevokedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	s.RevokedAt = &now
	r.items[id] = s

	return nil
}

func (r *SessionsRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.items {
		if s.UserID != userID || s.RevokedAt != nil {
			continue
		}

		now := time.Now().UTC()
		s.RevokedAt = &now
		r.items[id] = s
	}

	return nil
}

// Get is a test helper.
func (r *SessionsRepo) Get(id string) (auth.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	return s, ok
}
