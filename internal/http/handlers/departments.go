package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/geocoder89/staffhub/internal/departments"
	"github.com/geocoder89/staffhub/internal/domain/department"
	"github.com/geocoder89/staffhub/internal/http/middlewares"
	"github.com/geocoder89/staffhub/internal/membership"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DepartmentService interface {
	Create(ctx context.Context, ownerID string, req department.CreateDepartmentRequest) (department.Department, membership.Diff, error)
	List(ctx context.Context, ownerID string, page int) (departments.ListResult, error)
	Update(ctx context.Context, id, ownerID string, req department.UpdateDepartmentRequest) (department.Department, membership.Diff, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type DepartmentsHandler struct {
	svc DepartmentService
	log *slog.Logger
}

func NewDepartmentsHandler(svc DepartmentService, log *slog.Logger) *DepartmentsHandler {
	return &DepartmentsHandler{svc: svc, log: log}
}

func (h *DepartmentsHandler) Create(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req department.CreateDepartmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	d, diff, err := h.svc.Create(ctx.Request.Context(), ownerID, req)
	if err != nil {
		h.log.Error("create department", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	h.log.Info("department created",
		"department_id", d.ID,
		"added", len(diff.Added),
	)

	ctx.JSON(http.StatusCreated, gin.H{"department": d})
}

func (h *DepartmentsHandler) List(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.svc.List(ctx.Request.Context(), ownerID, page)
	if err != nil {
		h.log.Error("list departments", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *DepartmentsHandler) Update(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id, ok := departmentIDParam(ctx)
	if !ok {
		return
	}

	var req department.UpdateDepartmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	d, diff, err := h.svc.Update(ctx.Request.Context(), id, ownerID, req)
	if err != nil {
		if errors.Is(err, department.ErrNotFound) {
			RespondNotFound(ctx, "Department not found")
			return
		}

		h.log.Error("update department", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	h.log.Info("department updated",
		"department_id", d.ID,
		"added", len(diff.Added),
		"removed", len(diff.Removed),
	)

	ctx.JSON(http.StatusOK, gin.H{"department": d})
}

func (h *DepartmentsHandler) Delete(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id, ok := departmentIDParam(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, department.ErrNotFound) {
			RespondNotFound(ctx, "Department not found")
			return
		}

		h.log.Error("delete department", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Department deleted"})
}

// A malformed id can't name an existing department, so it reads as not found
// rather than as a validation failure.
func departmentIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		RespondNotFound(ctx, "Department not found")
		return "", false
	}

	return id, true
}
