package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/staffhub/internal/domain/department"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/http/handlers"
)

type fakeUsersRepo struct {
	getByIDFn       func(ctx context.Context, id string) (user.User, error)
	listEmployeesFn func(ctx context.Context) ([]user.User, error)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}

	return user.User{}, nil
}

func (f *fakeUsersRepo) ListEmployees(ctx context.Context) ([]user.User, error) {
	if f.listEmployeesFn != nil {
		return f.listEmployeesFn(ctx)
	}

	return []user.User{}, nil
}

type fakeDepartmentGetter struct {
	getFn func(ctx context.Context, id string) (department.Department, error)
}

func (f *fakeDepartmentGetter) GetByID(ctx context.Context, id string) (department.Department, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return department.Department{}, department.ErrNotFound
}

func TestMeHandler(t *testing.T) {
	now := time.Now().UTC()
	userID := newUUID()
	deptID := newUUID()

	tests := []struct {
		name           string
		usersSetup     func(*fakeUsersRepo)
		deptSetup      func(*fakeDepartmentGetter)
		wantStatusCode int
		wantDeptNull   bool
	}{
		{
			name: "assigned",
			usersSetup: func(f *fakeUsersRepo) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					dep := deptID
					return user.User{
						ID:           id,
						FirstName:    "Asha",
						LastName:     "Verma",
						Email:        "asha@example.com",
						Role:         user.RoleEmployee,
						DepartmentID: &dep,
						CreatedAt:    now,
						UpdatedAt:    now,
					}, nil
				}
			},
			deptSetup: func(f *fakeDepartmentGetter) {
				f.getFn = func(ctx context.Context, id string) (department.Department, error) {
					return department.Department{ID: id, DepartmentName: "Platform", CategoryName: "IT"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantDeptNull:   false,
		},
		{
			name: "unassigned",
			usersSetup: func(f *fakeUsersRepo) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{ID: id, Role: user.RoleEmployee, CreatedAt: now, UpdatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantDeptNull:   true,
		},
		{
			// the department was deleted out from under the back-pointer
			name: "stale_back_pointer",
			usersSetup: func(f *fakeUsersRepo) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					dep := deptID
					return user.User{ID: id, Role: user.RoleEmployee, DepartmentID: &dep, CreatedAt: now, UpdatedAt: now}, nil
				}
			},
			deptSetup: func(f *fakeDepartmentGetter) {
				f.getFn = func(ctx context.Context, id string) (department.Department, error) {
					return department.Department{}, department.ErrNotFound
				}
			},
			wantStatusCode: http.StatusOK,
			wantDeptNull:   true,
		},
		{
			name: "user_not_found",
			usersSetup: func(f *fakeUsersRepo) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			usersSetup: func(f *fakeUsersRepo) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsersRepo{}
			depts := &fakeDepartmentGetter{}

			if tt.usersSetup != nil {
				tt.usersSetup(users)
			}

			if tt.deptSetup != nil {
				tt.deptSetup(depts)
			}

			h := handlers.NewEmployeesHandler(users, depts, discardLogger())
			r := setupRouterAs(http.MethodGet, "/employees/me", userID, user.RoleEmployee, h.Me)

			req := httptest.NewRequest(http.MethodGet, "/employees/me", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				User       *user.User      `json:"user"`
				Department json.RawMessage `json:"department"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if resp.User == nil || resp.User.ID != userID {
				t.Fatalf("expected user %s in response, body=%s", userID, w.Body.String())
			}

			gotNull := string(resp.Department) == "null"
			if gotNull != tt.wantDeptNull {
				t.Fatalf("department null=%v, want %v, body=%s", gotNull, tt.wantDeptNull, w.Body.String())
			}
		})
	}
}

func TestMeHandlerNeverLeaksPasswordHash(t *testing.T) {
	userID := newUUID()

	users := &fakeUsersRepo{
		getByIDFn: func(ctx context.Context, id string) (user.User, error) {
			return user.User{ID: id, PasswordHash: "$2a$10$secret"}, nil
		},
	}

	h := handlers.NewEmployeesHandler(users, &fakeDepartmentGetter{}, discardLogger())
	r := setupRouterAs(http.MethodGet, "/employees/me", userID, user.RoleEmployee, h.Me)

	req := httptest.NewRequest(http.MethodGet, "/employees/me", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	var userFields map[string]json.RawMessage

	if err := json.Unmarshal(raw["user"], &userFields); err != nil {
		t.Fatalf("failed to unmarshal user: %v", err)
	}

	for _, key := range []string{"password", "passwordHash", "password_hash"} {
		if _, ok := userFields[key]; ok {
			t.Fatalf("response leaks %q, body=%s", key, w.Body.String())
		}
	}
}

func TestListEmployeesHandler(t *testing.T) {
	managerID := newUUID()

	tests := []struct {
		name           string
		usersSetup     func(*fakeUsersRepo)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			usersSetup: func(f *fakeUsersRepo) {
				f.listEmployeesFn = func(ctx context.Context) ([]user.User, error) {
					return []user.User{
						{ID: newUUID(), FirstName: "Asha", Role: user.RoleEmployee},
						{ID: newUUID(), FirstName: "Ben", Role: user.RoleEmployee},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "empty",
			usersSetup:     nil,
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name: "repo_error",
			usersSetup: func(f *fakeUsersRepo) {
				f.listEmployeesFn = func(ctx context.Context) ([]user.User, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsersRepo{}

			if tt.usersSetup != nil {
				tt.usersSetup(users)
			}

			h := handlers.NewEmployeesHandler(users, &fakeDepartmentGetter{}, discardLogger())
			r := setupRouterAs(http.MethodGet, "/employees", managerID, user.RoleManager, h.ListAll)

			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Employees []user.User `json:"employees"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if len(resp.Employees) != tt.wantCount {
					t.Fatalf("got %d employees, want %d", len(resp.Employees), tt.wantCount)
				}
			}
		})
	}
}

func TestMeHandlerETagNotModified(t *testing.T) {
	userID := newUUID()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	users := &fakeUsersRepo{
		getByIDFn: func(ctx context.Context, id string) (user.User, error) {
			return user.User{ID: id, FirstName: "Asha", CreatedAt: now, UpdatedAt: now}, nil
		},
	}

	h := handlers.NewEmployeesHandler(users, &fakeDepartmentGetter{}, discardLogger())
	r := setupRouterAs(http.MethodGet, "/employees/me", userID, user.RoleEmployee, h.Me)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/employees/me", nil))

	if w1.Code != http.StatusOK {
		t.Fatalf("first call got %d, body=%s", w1.Code, w1.Body.String())
	}

	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header in first response")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/employees/me", nil)
	req2.Header.Set("If-None-Match", etag)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusNotModified {
		t.Fatalf("second call got %d, want %d", w2.Code, http.StatusNotModified)
	}

	if w2.Body.Len() != 0 {
		t.Fatalf("expected empty body for 304, got %q", w2.Body.String())
	}
}
