package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
)

// resolveDepartment looks a department up by ID, falling back to a case-insensitive name match.
func resolveDepartment(ctx context.Context, repo portsrepo.DepartmentReader, idOrName string) (*domain.Department, error) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return nil, apperrors.NewValidationError("department is required")
	}
	dept, err := repo.FindDepartmentByID(ctx, key)
	if err == nil {
		return dept, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return repo.FindDepartmentByName(ctx, key)
}

// requirePostable fetches an active account, optionally checking its type.
func requirePostable(ctx context.Context, repo portsrepo.AccountReader, code string, want domain.AccountType) (*domain.Account, error) {
	acc, err := repo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("account %s does not exist", code)
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, apperrors.NewValidationError("account %s is inactive", code)
	}
	if want != "" && acc.AccountType != want {
		return nil, apperrors.NewValidationError("account %s is %s, expected %s", code, acc.AccountType, want)
	}
	return acc, nil
}

// normalizeFilter validates f and replaces a department name with its ID.
func normalizeFilter(ctx context.Context, repo portsrepo.DepartmentReader, f domain.Filter) (domain.Filter, error) {
	if err := f.Validate(); err != nil {
		return f, apperrors.NewValidationError("%s", err.Error())
	}
	if f.DepartmentID == "" {
		return f, nil
	}
	dept, err := resolveDepartment(ctx, repo, f.DepartmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return f, apperrors.NewValidationError("unknown department %q", f.DepartmentID)
		}
		return f, err
	}
	f.DepartmentID = dept.DepartmentID
	return f, nil
}
