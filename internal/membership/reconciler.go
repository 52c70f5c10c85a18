// Package membership keeps Department.EmployeeIDs and User.DepartmentID
// mirror-consistent. The diff computation is pure so it can be tested without
// a store; Apply performs the store writes in a fixed order.
package membership

import "context"

// Diff is the minimal change set between two membership snapshots.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// ComputeDiff returns requested−previous as Added and previous−requested as
// Removed. Both inputs are de-duplicated defensively; first occurrence order
// is preserved. Members present in both snapshots appear in neither set.
func ComputeDiff(previous, requested []string) Diff {
	prev := toSet(previous)
	req := toSet(requested)

	d := Diff{Added: []string{}, Removed: []string{}}

	for _, id := range dedupe(requested) {
		if _, ok := prev[id]; !ok {
			d.Added = append(d.Added, id)
		}
	}

	for _, id := range dedupe(previous) {
		if _, ok := req[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}

	return d
}

// Dedupe normalizes a requested member list the way the reconciler stores it:
// duplicates dropped, order of first occurrence kept.
func Dedupe(ids []string) []string {
	return dedupe(ids)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// IdentityWriter mutates the departmentId back-pointer on user records.
type IdentityWriter interface {
	// AssignDepartment sets departmentId on every listed user unconditionally
	// (last writer wins).
	AssignDepartment(ctx context.Context, userIDs []string, departmentID string) error
	// ClearDepartment unsets departmentId, but only on users whose back-pointer
	// still equals departmentID. Users already reassigned elsewhere are skipped.
	ClearDepartment(ctx context.Context, userIDs []string, departmentID string) error
}

// MemberWriter replaces a department's member list wholesale.
type MemberWriter interface {
	ReplaceMembers(ctx context.Context, departmentID string, memberIDs []string) error
}

type Reconciler struct {
	identities  IdentityWriter
	departments MemberWriter
}

func NewReconciler(identities IdentityWriter, departments MemberWriter) *Reconciler {
	return &Reconciler{identities: identities, departments: departments}
}

// Apply diffs previous against requested and writes the result: guarded clears
// for removed members, unconditional assigns for added members, then the
// department's member list is replaced with the de-duplicated requested set.
//
// There is no transaction across the two stores. A failure part-way through
// leaves already-committed back-pointer updates in place; the error is
// propagated so the caller can surface it and re-read current state.
func (r *Reconciler) Apply(ctx context.Context, departmentID string, previous, requested []string) (Diff, error) {
	diff := ComputeDiff(previous, requested)

	if len(diff.Removed) > 0 {
		if err := r.identities.ClearDepartment(ctx, diff.Removed, departmentID); err != nil {
			return diff, err
		}
	}

	if len(diff.Added) > 0 {
		if err := r.identities.AssignDepartment(ctx, diff.Added, departmentID); err != nil {
			return diff, err
		}
	}

	if err := r.departments.ReplaceMembers(ctx, departmentID, dedupe(requested)); err != nil {
		return diff, err
	}

	return diff, nil
}
