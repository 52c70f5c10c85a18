// Package departments orchestrates the department lifecycle
// (NonExistent -> Active -> Deleted) and drives the membership reconciler
// at the right points.
package departments

import (
	"context"
	"math"

	"github.com/geocoder89/staffhub/internal/domain/department"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/membership"
)

// PageSize is fixed; listings render five departments per page.
const PageSize = 5

type DepartmentStore interface {
	Create(ctx context.Context, d department.Department) error
	GetByID(ctx context.Context, id string) (department.Department, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]department.Department, int, error)
	UpdateAttributes(ctx context.Context, d department.Department) error
	ReplaceMembers(ctx context.Context, departmentID string, memberIDs []string) error
	Delete(ctx context.Context, id string) error
}

type IdentityStore interface {
	membership.IdentityWriter
	Summaries(ctx context.Context, userIDs []string) ([]user.Summary, error)
}

type Service struct {
	departments DepartmentStore
	identities  IdentityStore
	reconciler  *membership.Reconciler
}

func NewService(departments DepartmentStore, identities IdentityStore) *Service {
	return &Service{
		departments: departments,
		identities:  identities,
		reconciler:  membership.NewReconciler(identities, departments),
	}
}

// DepartmentView is a department plus member summaries, as rendered in lists.
type DepartmentView struct {
	department.Department
	Employees []user.Summary `json:"employees"`
}

type ListResult struct {
	Departments []DepartmentView `json:"departments"`
	Total       int              `json:"total"`
	Pages       int              `json:"pages"`
}

// Create persists a new department owned by ownerID, then reconciles the
// requested members onto it. Requested member IDs are not validated for
// existence; assigning a nonexistent ID is a no-op on the identity store.
func (s *Service) Create(ctx context.Context, ownerID string, req department.CreateDepartmentRequest) (department.Department, membership.Diff, error) {
	d := department.NewFromCreateRequest(req, ownerID)

	if err := s.departments.Create(ctx, d); err != nil {
		return department.Department{}, membership.Diff{}, err
	}

	diff, err := s.reconciler.Apply(ctx, d.ID, nil, req.EmployeeIDs)
	if err != nil {
		// back-pointer writes may be partially applied; no rollback
		return department.Department{}, diff, err
	}

	d.EmployeeIDs = membership.Dedupe(req.EmployeeIDs)

	return d, diff, nil
}

// List returns the ownerID's departments, five per page, 1-indexed. A page
// past the end yields an empty slice rather than an error.
func (s *Service) List(ctx context.Context, ownerID string, page int) (ListResult, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * PageSize

	items, total, err := s.departments.ListByOwner(ctx, ownerID, PageSize, offset)
	if err != nil {
		return ListResult{}, err
	}

	views := make([]DepartmentView, 0, len(items))

	for _, d := range items {
		members, err := s.identities.Summaries(ctx, d.EmployeeIDs)
		if err != nil {
			return ListResult{}, err
		}

		views = append(views, DepartmentView{Department: d, Employees: members})
	}

	return ListResult{
		Departments: views,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(PageSize))),
	}, nil
}

// Update applies attribute changes and reconciles membership against the
// department's current member list. Ownership is enforced as existence:
// callers who do not own the department get ErrNotFound.
func (s *Service) Update(ctx context.Context, id, ownerID string, req department.UpdateDepartmentRequest) (department.Department, membership.Diff, error) {
	d, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return department.Department{}, membership.Diff{}, err
	}

	previous := d.EmployeeIDs

	d.DepartmentName = req.DepartmentName
	d.CategoryName = req.CategoryName
	d.Location = req.Location
	d.Salary = req.Salary

	if err := s.departments.UpdateAttributes(ctx, d); err != nil {
		return department.Department{}, membership.Diff{}, err
	}

	diff, err := s.reconciler.Apply(ctx, d.ID, previous, req.EmployeeIDs)
	if err != nil {
		return department.Department{}, diff, err
	}

	d.EmployeeIDs = membership.Dedupe(req.EmployeeIDs)

	return d, diff, nil
}

// Delete clears every member's back-pointer, then removes the record.
// The same ownership-as-existence contract as Update applies.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	d, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if _, err := s.reconciler.Apply(ctx, d.ID, d.EmployeeIDs, nil); err != nil {
		return err
	}

	return s.departments.Delete(ctx, d.ID)
}

func (s *Service) loadOwned(ctx context.Context, id, ownerID string) (department.Department, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return department.Department{}, err
	}

	if d.CreatedBy != ownerID {
		return department.Department{}, department.ErrNotFound
	}

	return d, nil
}
