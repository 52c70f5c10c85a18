package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/staffhub/internal/domain/user"
)

type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Put(u user.User) {
	r.mu.Lock()
	r.items[u.ID] = u
	r.mu.Unlock()
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// AssignDepartment sets the back-pointer unconditionally. Unknown IDs are
// skipped, matching the bulk-update semantics of the SQL implementation.
func (r *UsersRepo) AssignDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range userIDs {
		u, ok := r.items[id]
		if !ok {
			continue
		}

		dep := departmentID
		u.DepartmentID = &dep
		r.items[id] = u
	}

	return nil
}

// ClearDepartment unsets the back-pointer only where it still equals
// departmentID.
func (r *UsersRepo) ClearDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range userIDs {
		u, ok := r.items[id]
		if !ok {
			continue
		}

		if u.DepartmentID == nil || *u.DepartmentID != departmentID {
			continue
		}

		u.DepartmentID = nil
		r.items[id] = u
	}

	return nil
}

func (r *UsersRepo) Summaries(ctx context.Context, userIDs []string) ([]user.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.Summary, 0, len(userIDs))

	for _, id := range userIDs {
		u, ok := r.items[id]
		if !ok {
			continue
		}

		out = append(out, user.Summary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
	}

	return out, nil
}
