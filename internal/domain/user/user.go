package user

import (
	"errors"
	"time"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Gender       string   `json:"gender"`
	Hobbies      []string `json:"hobbies"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // never expose hash in JSON
	Role         string   `json:"role"`
	// DepartmentID mirrors Department.EmployeeIDs. Nil means unassigned.
	DepartmentID *string   `json:"departmentId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary is the shape embedded in department listings.
type Summary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type CreateUserRequest struct {
	FirstName string   `json:"firstName" binding:"required,min=1,max=80"`
	LastName  string   `json:"lastName" binding:"required,min=1,max=80"`
	Gender    string   `json:"gender" binding:"required"`
	Hobbies   []string `json:"hobbies" binding:"omitempty,dive,max=80"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8,max=20"`
	Role      string   `json:"role" binding:"omitempty,oneof=employee manager"`
}
