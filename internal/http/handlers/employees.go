package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/staffhub/internal/domain/department"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type EmployeeStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	ListEmployees(ctx context.Context) ([]user.User, error)
}

type DepartmentGetter interface {
	GetByID(ctx context.Context, id string) (department.Department, error)
}

type EmployeesHandler struct {
	users       EmployeeStore
	departments DepartmentGetter
	log         *slog.Logger
}

func NewEmployeesHandler(users EmployeeStore, departments DepartmentGetter, log *slog.Logger) *EmployeesHandler {
	return &EmployeesHandler{users: users, departments: departments, log: log}
}

// Me returns the caller's profile plus the department their back-pointer
// names, or null when unassigned.
func (h *EmployeesHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.Error("load profile", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	var dept *department.Department

	if u.DepartmentID != nil {
		d, err := h.departments.GetByID(ctx.Request.Context(), *u.DepartmentID)

		switch {
		case err == nil:
			dept = &d
		case errors.Is(err, department.ErrNotFound):
			// stale back-pointer, render as unassigned
		default:
			h.log.Error("load department", "error", err)
			RespondInternal(ctx, "Something went wrong")

			return
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"user": u, "department": dept})
}

func (h *EmployeesHandler) ListAll(ctx *gin.Context) {
	employees, err := h.users.ListEmployees(ctx.Request.Context())
	if err != nil {
		h.log.Error("list employees", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"employees": employees})
}
