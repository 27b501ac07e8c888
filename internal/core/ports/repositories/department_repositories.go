package repositories

import (
	"context"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// DepartmentReader defines read operations for departments
type DepartmentReader interface {
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)

	// FindDepartmentByName matches names case-insensitively.
	FindDepartmentByName(ctx context.Context, name string) (*domain.Department, error)

	// ListDepartments returns departments ordered by name. A nil status lists all.
	ListDepartments(ctx context.Context, status *domain.DepartmentStatus) ([]domain.Department, error)
}

// DepartmentWriter defines write operations for departments
type DepartmentWriter interface {
	SaveDepartment(ctx context.Context, department domain.Department) error
	UpdateDepartment(ctx context.Context, department domain.Department) error
}

// DepartmentRepositoryFacade combines all department-related repository interfaces
type DepartmentRepositoryFacade interface {
	DepartmentReader
	DepartmentWriter
}
