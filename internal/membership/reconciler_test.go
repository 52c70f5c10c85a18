package membership_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/geocoder89/staffhub/internal/membership"
)

func TestComputeDiff(t *testing.T) {
	tests := []struct {
		name        string
		previous    []string
		requested   []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:        "pure_creation",
			previous:    []string{},
			requested:   []string{"e1", "e2"},
			wantAdded:   []string{"e1", "e2"},
			wantRemoved: []string{},
		},
		{
			name:        "clear_all",
			previous:    []string{"e1", "e2"},
			requested:   []string{},
			wantAdded:   []string{},
			wantRemoved: []string{"e1", "e2"},
		},
		{
			name:        "overlap_left_untouched",
			previous:    []string{"e1", "e2"},
			requested:   []string{"e2", "e3"},
			wantAdded:   []string{"e3"},
			wantRemoved: []string{"e1"},
		},
		{
			name:        "identical_sets_yield_empty_diff",
			previous:    []string{"e1", "e2"},
			requested:   []string{"e2", "e1"},
			wantAdded:   []string{},
			wantRemoved: []string{},
		},
		{
			name:        "duplicates_in_request_are_tolerated",
			previous:    []string{"e1"},
			requested:   []string{"e2", "e2", "e1", "e2"},
			wantAdded:   []string{"e2"},
			wantRemoved: []string{},
		},
		{
			name:        "duplicates_in_previous_are_tolerated",
			previous:    []string{"e1", "e1", "e2"},
			requested:   []string{"e2"},
			wantAdded:   []string{},
			wantRemoved: []string{"e1"},
		},
		{
			name:        "empty_both",
			previous:    nil,
			requested:   nil,
			wantAdded:   []string{},
			wantRemoved: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := membership.ComputeDiff(tt.previous, tt.requested)

			if !reflect.DeepEqual(got.Added, tt.wantAdded) {
				t.Fatalf("added = %v, want %v", got.Added, tt.wantAdded)
			}

			if !reflect.DeepEqual(got.Removed, tt.wantRemoved) {
				t.Fatalf("removed = %v, want %v", got.Removed, tt.wantRemoved)
			}
		})
	}
}

// fake stores in the style of the handler tests: override only what you need.

type fakeIdentityWriter struct {
	assignFn func(ctx context.Context, userIDs []string, departmentID string) error
	clearFn  func(ctx context.Context, userIDs []string, departmentID string) error

	assignCalls [][]string
	clearCalls  [][]string
}

func (f *fakeIdentityWriter) AssignDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	f.assignCalls = append(f.assignCalls, userIDs)
	if f.assignFn != nil {
		return f.assignFn(ctx, userIDs, departmentID)
	}
	return nil
}

func (f *fakeIdentityWriter) ClearDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	f.clearCalls = append(f.clearCalls, userIDs)
	if f.clearFn != nil {
		return f.clearFn(ctx, userIDs, departmentID)
	}
	return nil
}

type fakeMemberWriter struct {
	replaceFn    func(ctx context.Context, departmentID string, memberIDs []string) error
	replacedWith []string
	calls        int
}

func (f *fakeMemberWriter) ReplaceMembers(ctx context.Context, departmentID string, memberIDs []string) error {
	f.calls++
	f.replacedWith = memberIDs
	if f.replaceFn != nil {
		return f.replaceFn(ctx, departmentID, memberIDs)
	}
	return nil
}

func TestReconcilerApply(t *testing.T) {
	ctx := context.Background()

	t.Run("applies_clears_then_assigns_then_replaces", func(t *testing.T) {
		ids := &fakeIdentityWriter{}
		deps := &fakeMemberWriter{}
		r := membership.NewReconciler(ids, deps)

		diff, err := r.Apply(ctx, "d1", []string{"e1", "e2"}, []string{"e2", "e3"})
		if err != nil {
			t.Fatalf("apply failed: %v", err)
		}

		if !reflect.DeepEqual(diff.Added, []string{"e3"}) || !reflect.DeepEqual(diff.Removed, []string{"e1"}) {
			t.Fatalf("unexpected diff: %+v", diff)
		}

		if len(ids.clearCalls) != 1 || !reflect.DeepEqual(ids.clearCalls[0], []string{"e1"}) {
			t.Fatalf("unexpected clear calls: %v", ids.clearCalls)
		}

		if len(ids.assignCalls) != 1 || !reflect.DeepEqual(ids.assignCalls[0], []string{"e3"}) {
			t.Fatalf("unexpected assign calls: %v", ids.assignCalls)
		}

		if !reflect.DeepEqual(deps.replacedWith, []string{"e2", "e3"}) {
			t.Fatalf("members replaced with %v", deps.replacedWith)
		}
	})

	t.Run("empty_diff_skips_identity_writes", func(t *testing.T) {
		ids := &fakeIdentityWriter{}
		deps := &fakeMemberWriter{}
		r := membership.NewReconciler(ids, deps)

		diff, err := r.Apply(ctx, "d1", []string{"e1"}, []string{"e1"})
		if err != nil {
			t.Fatalf("apply failed: %v", err)
		}

		if !diff.Empty() {
			t.Fatalf("expected empty diff, got %+v", diff)
		}

		if len(ids.clearCalls) != 0 || len(ids.assignCalls) != 0 {
			t.Fatalf("expected no identity writes, got clears=%v assigns=%v", ids.clearCalls, ids.assignCalls)
		}

		// the member list is still replaced wholesale
		if deps.calls != 1 {
			t.Fatalf("expected 1 replace call, got %d", deps.calls)
		}
	})

	t.Run("requested_members_are_deduplicated_before_replacement", func(t *testing.T) {
		ids := &fakeIdentityWriter{}
		deps := &fakeMemberWriter{}
		r := membership.NewReconciler(ids, deps)

		_, err := r.Apply(ctx, "d1", nil, []string{"e1", "e1", "e2"})
		if err != nil {
			t.Fatalf("apply failed: %v", err)
		}

		if !reflect.DeepEqual(deps.replacedWith, []string{"e1", "e2"}) {
			t.Fatalf("members replaced with %v", deps.replacedWith)
		}
	})

	t.Run("clear_error_propagates_and_stops_assigns", func(t *testing.T) {
		wantErr := errors.New("store down")
		ids := &fakeIdentityWriter{
			clearFn: func(ctx context.Context, userIDs []string, departmentID string) error {
				return wantErr
			},
		}
		deps := &fakeMemberWriter{}
		r := membership.NewReconciler(ids, deps)

		_, err := r.Apply(ctx, "d1", []string{"e1"}, []string{"e2"})
		if !errors.Is(err, wantErr) {
			t.Fatalf("got err %v, want %v", err, wantErr)
		}

		if len(ids.assignCalls) != 0 {
			t.Fatalf("assign should not run after failed clear")
		}

		if deps.calls != 0 {
			t.Fatalf("member list should not be replaced after failed clear")
		}
	})

	t.Run("replace_error_propagates_without_rollback", func(t *testing.T) {
		wantErr := errors.New("store down")
		ids := &fakeIdentityWriter{}
		deps := &fakeMemberWriter{
			replaceFn: func(ctx context.Context, departmentID string, memberIDs []string) error {
				return wantErr
			},
		}
		r := membership.NewReconciler(ids, deps)

		_, err := r.Apply(ctx, "d1", nil, []string{"e1"})
		if !errors.Is(err, wantErr) {
			t.Fatalf("got err %v, want %v", err, wantErr)
		}

		// back-pointer assigns were already attempted; no rollback is issued.
		if len(ids.assignCalls) != 1 {
			t.Fatalf("expected 1 assign call, got %d", len(ids.assignCalls))
		}
	})
}
