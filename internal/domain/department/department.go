package department

import (
	"errors"
	"time"
)

type Department struct {
	ID             string    `json:"id"`
	DepartmentName string    `json:"departmentName"`
	CategoryName   string    `json:"categoryName"`
	Location       string    `json:"location"`
	Salary         int64     `json:"salary"`
	EmployeeIDs    []string  `json:"employeeIds"`
	CreatedBy      string    `json:"createdBy"` // immutable after creation
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Returned for both "does not exist" and "not owned by the caller" so the
// two cases are indistinguishable to the client.
var ErrNotFound = errors.New("department not found")

type CreateDepartmentRequest struct {
	DepartmentName string   `json:"departmentName" binding:"required,min=2,max=120"`
	CategoryName   string   `json:"categoryName" binding:"required,oneof=HR IT Sales Product Marketing"`
	Location       string   `json:"location" binding:"required,min=2,max=120"`
	Salary         int64    `json:"salary" binding:"required,min=1"`
	EmployeeIDs    []string `json:"employeeIds" binding:"omitempty,dive,uuid4"`
}

// a full update payload; partial updates are not supported.
type UpdateDepartmentRequest struct {
	DepartmentName string   `json:"departmentName" binding:"required,min=2,max=120"`
	CategoryName   string   `json:"categoryName" binding:"required,oneof=HR IT Sales Product Marketing"`
	Location       string   `json:"location" binding:"required,min=2,max=120"`
	Salary         int64    `json:"salary" binding:"required,min=1"`
	EmployeeIDs    []string `json:"employeeIds" binding:"omitempty,dive,uuid4"`
}
