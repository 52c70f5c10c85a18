package department

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds an Active department owned by createdBy.
// EmployeeIDs starts empty: membership is applied by the reconciler after
// the record exists.
func NewFromCreateRequest(req CreateDepartmentRequest, createdBy string) Department {
	now := time.Now().UTC()

	return Department{
		ID:             uuid.NewString(),
		DepartmentName: req.DepartmentName,
		CategoryName:   req.CategoryName,
		Location:       req.Location,
		Salary:         req.Salary,
		EmployeeIDs:    []string{},
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
