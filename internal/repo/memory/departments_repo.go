package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/staffhub/internal/domain/department"
)

// DepartmentsRepo keeps departments in insertion order so pagination is
// stable, mirroring the SQL repo's created_at ordering.
type DepartmentsRepo struct {
	mu    sync.RWMutex
	items map[string]department.Department
	order []string
}

func NewDepartmentsRepo() *DepartmentsRepo {
	return &DepartmentsRepo{
		items: make(map[string]department.Department),
	}
}

func (r *DepartmentsRepo) Create(ctx context.Context, d department.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[d.ID] = d
	r.order = append(r.order, d.ID)

	return nil
}

func (r *DepartmentsRepo) GetByID(ctx context.Context, id string) (department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[id]
	if !ok {
		return department.Department{}, department.ErrNotFound
	}

	return d, nil
}

func (r *DepartmentsRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]department.Department, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]department.Department, 0)

	for _, id := range r.order {
		d, ok := r.items[id]
		if !ok || d.CreatedBy != ownerID {
			continue
		}
		owned = append(owned, d)
	}

	total := len(owned)

	if offset >= total {
		return []department.Department{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return owned[offset:end], total, nil
}

func (r *DepartmentsRepo) UpdateAttributes(ctx context.Context, d department.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[d.ID]
	if !ok {
		return department.ErrNotFound
	}

	cur.DepartmentName = d.DepartmentName
	cur.CategoryName = d.CategoryName
	cur.Location = d.Location
	cur.Salary = d.Salary
	cur.UpdatedAt = time.Now().UTC()
	r.items[d.ID] = cur

	return nil
}

func (r *DepartmentsRepo) ReplaceMembers(ctx context.Context, departmentID string, memberIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[departmentID]
	if !ok {
		return department.ErrNotFound
	}

	cur.EmployeeIDs = memberIDs
	cur.UpdatedAt = time.Now().UTC()
	r.items[departmentID] = cur

	return nil
}

func (r *DepartmentsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return department.ErrNotFound
	}

	delete(r.items, id)

	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
