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
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountObserver sets the event observer.
func WithAccountObserver(o portssvc.LedgerObserver) AccountServiceOption {
	return func(s *accountService) {
		s.Observer = o
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		BaseService: newBaseService("account"),
		accountRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, apperrors.NewValidationError("account code and name are required")
	}
	accountType, ok := domain.ParseAccountType(string(req.AccountType))
	if !ok {
		return nil, apperrors.NewValidationError("unknown account type %q", req.AccountType)
	}
	if req.IsCash && accountType != domain.Asset {
		return nil, apperrors.NewValidationError("only ASSET accounts can be cash accounts")
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing account", slog.String("code", code))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, code)
	}

	parentID := ""
	if req.ParentAccountCode != nil && strings.TrimSpace(*req.ParentAccountCode) != "" {
		parent, err := s.findParent(ctx, strings.TrimSpace(*req.ParentAccountCode), accountType)
		if err != nil {
			return nil, err
		}
		parentID = parent.AccountID
	}

	now := s.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            name,
		AccountType:     accountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsCash:          req.IsCash,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", code))
	return &account, nil
}

// findParent resolves a parent account and checks it can hold a child of childType.
func (s *accountService) findParent(ctx context.Context, code string, childType domain.AccountType) (*domain.Account, error) {
	parent, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("parent account %s does not exist", code)
		}
		return nil, err
	}
	if parent.AccountType != childType {
		return nil, apperrors.NewValidationError("parent account %s is %s, child must share its type", code, parent.AccountType)
	}
	return parent, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.ParentAccountCode != nil {
		parentCode := strings.TrimSpace(*req.ParentAccountCode)
		if parentCode == "" {
			account.ParentAccountID = ""
		} else {
			parent, err := s.findParent(ctx, parentCode, account.AccountType)
			if err != nil {
				return nil, err
			}
			if err := s.checkNoCycle(ctx, account.AccountID, parent); err != nil {
				return nil, err
			}
			account.ParentAccountID = parent.AccountID
		}
	}

	account.LastUpdatedAt = s.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("code", code))
	return account, nil
}

// checkNoCycle walks up from parent and fails if it reaches accountID.
func (s *accountService) checkNoCycle(ctx context.Context, accountID string, parent *domain.Account) error {
	seen := map[string]bool{}
	for cur := parent; cur != nil; {
		if cur.AccountID == accountID {
			return apperrors.NewValidationError("account %s cannot be its own ancestor", parent.Code)
		}
		if cur.ParentAccountID == "" || seen[cur.AccountID] {
			return nil
		}
		seen[cur.AccountID] = true
		next, err := s.accountRepo.FindAccountByID(ctx, cur.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		cur = next
	}
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	return s.setActive(ctx, code, false, userID)
}

func (s *accountService) ActivateAccount(ctx context.Context, code string, userID string) error {
	return s.setActive(ctx, code, true, userID)
}

func (s *accountService) setActive(ctx context.Context, code string, active bool, userID string) error {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return err
	}
	if account.IsActive == active {
		state := "inactive"
		if active {
			state = "active"
		}
		return apperrors.NewValidationError("account %s is already %s", code, state)
	}

	if err := s.accountRepo.SetAccountActive(ctx, account.AccountID, active, userID, s.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to change account state", slog.String("code", code), slog.Bool("active", active))
		return err
	}

	s.LogInfo(ctx, "Account state changed", slog.String("code", code), slog.Bool("active", active))
	return nil
}

// ImportAccounts creates accounts in dependency order. Rows whose code already exists are skipped.
func (s *accountService) ImportAccounts(ctx context.Context, reqs []dto.CreateAccountRequest, userID string) (int, error) {
	known := map[string]bool{}
	existing, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return 0, err
	}
	for _, a := range existing {
		known[a.Code] = true
	}

	pending := make([]dto.CreateAccountRequest, 0, len(reqs))
	for _, r := range reqs {
		if !known[strings.TrimSpace(r.Code)] {
			pending = append(pending, r)
		}
	}

	created := 0
	for len(pending) > 0 {
		var next []dto.CreateAccountRequest
		for _, r := range pending {
			if known[strings.TrimSpace(r.Code)] {
				continue
			}
			if r.ParentAccountCode != nil && *r.ParentAccountCode != "" && !known[strings.TrimSpace(*r.ParentAccountCode)] {
				next = append(next, r)
				continue
			}
			if _, err := s.CreateAccount(ctx, r, userID); err != nil {
				return created, fmt.Errorf("importing account %s: %w", r.Code, err)
			}
			known[strings.TrimSpace(r.Code)] = true
			created++
		}
		if len(next) == len(pending) {
			return created, apperrors.NewValidationError("account %s references unknown parent %s", next[0].Code, *next[0].ParentAccountCode)
		}
		pending = next
	}

	s.LogInfo(ctx, "Accounts imported", slog.Int("created", created))
	return created, nil
}
