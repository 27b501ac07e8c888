package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// departmentService implements the DepartmentSvcFacade interface
type departmentService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepositoryFacade
	accountRepo    portsrepo.AccountReader
}

// NewDepartmentService creates a new department service
func NewDepartmentService(repo portsrepo.DepartmentRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.DepartmentSvcFacade {
	return &departmentService{
		BaseService:    newBaseService("department"),
		departmentRepo: repo,
		accountRepo:    accountRepo,
	}
}

var _ portssvc.DepartmentSvcFacade = (*departmentService)(nil)

func (s *departmentService) GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error) {
	dept, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find department", slog.String("department_id", departmentID))
		}
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) ResolveDepartment(ctx context.Context, idOrName string) (*domain.Department, error) {
	return resolveDepartment(ctx, s.departmentRepo, idOrName)
}

func (s *departmentService) ListDepartments(ctx context.Context, status *domain.DepartmentStatus) ([]domain.Department, error) {
	depts, err := s.departmentRepo.ListDepartments(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list departments")
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	if depts == nil {
		return []domain.Department{}, nil
	}
	return depts, nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, userID string) (*domain.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name is required")
	}
	if err := accounting.ValidateBudget(req.Budget); err != nil {
		return nil, err
	}

	existing, err := s.departmentRepo.FindDepartmentByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: department %s", apperrors.ErrDuplicate, name)
	}

	expenseCode := ""
	if req.ExpenseAccountCode != nil {
		expenseCode = strings.TrimSpace(*req.ExpenseAccountCode)
		if err := s.checkExpenseAccount(ctx, expenseCode); err != nil {
			return nil, err
		}
	}

	now := s.Now().UTC()
	dept := domain.Department{
		DepartmentID:       uuid.NewString(),
		Name:               name,
		Head:               req.Head,
		Budget:             req.Budget,
		Description:        req.Description,
		Status:             domain.DepartmentActive,
		ExpenseAccountCode: expenseCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.departmentRepo.SaveDepartment(ctx, dept); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save department", slog.String("name", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Department created", slog.String("department_id", dept.DepartmentID), slog.String("name", name))
	return &dept, nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, userID string) (*domain.Department, error) {
	dept, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if req.Head != nil {
		dept.Head = *req.Head
	}
	if req.Budget != nil {
		if err := accounting.ValidateBudget(*req.Budget); err != nil {
			return nil, err
		}
		dept.Budget = *req.Budget
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.DepartmentActive, domain.DepartmentInactive:
			dept.Status = *req.Status
		default:
			return nil, apperrors.NewValidationError("unknown department status %q", *req.Status)
		}
	}
	if req.ExpenseAccountCode != nil {
		code := strings.TrimSpace(*req.ExpenseAccountCode)
		if err := s.checkExpenseAccount(ctx, code); err != nil {
			return nil, err
		}
		dept.ExpenseAccountCode = code
	}

	dept.LastUpdatedAt = s.Now().UTC()
	dept.LastUpdatedBy = userID

	if err := s.departmentRepo.UpdateDepartment(ctx, *dept); err != nil {
		s.LogError(ctx, err, "Failed to update department", slog.String("department_id", departmentID))
		return nil, err
	}

	s.LogInfo(ctx, "Department updated", slog.String("department_id", departmentID))
	return dept, nil
}

// checkExpenseAccount accepts an empty code or an active EXPENSE account.
func (s *departmentService) checkExpenseAccount(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	_, err := requirePostable(ctx, s.accountRepo, code, domain.Expense)
	return err
}
