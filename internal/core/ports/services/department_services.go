package services

import (
	"context"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
)

// DepartmentReaderSvc defines read operations for departments
type DepartmentReaderSvc interface {
	GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error)

	// ResolveDepartment finds a department by ID, falling back to a case-insensitive name match.
	ResolveDepartment(ctx context.Context, idOrName string) (*domain.Department, error)

	ListDepartments(ctx context.Context, status *domain.DepartmentStatus) ([]domain.Department, error)
}

// DepartmentWriterSvc defines write operations for departments
type DepartmentWriterSvc interface {
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, userID string) (*domain.Department, error)
	UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, userID string) (*domain.Department, error)
}

// DepartmentSvcFacade combines all department-related service interfaces
type DepartmentSvcFacade interface {
	DepartmentReaderSvc
	DepartmentWriterSvc
}
