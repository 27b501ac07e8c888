package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, active, userID, now)
	return args.Error(0)
}

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        " E-100 ",
		Name:        "Medical Supplies",
		AccountType: "expense",
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "E-100").Return(nil, apperrors.NewNotFoundError("account", "E-100")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("E-100", created.Code)
	suite.Equal(domain.Expense, created.AccountType)
	suite.True(created.IsActive)
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "C-001").Return(&domain.Account{Code: "C-001"}, nil).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "C-001", Name: "Cash", AccountType: domain.Asset}, "u1")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CashMustBeAsset() {
	created, err := suite.service.CreateAccount(context.Background(),
		dto.CreateAccountRequest{Code: "R-300", Name: "Till", AccountType: domain.Revenue, IsCash: true}, "u1")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	_, err := suite.service.CreateAccount(context.Background(),
		dto.CreateAccountRequest{Code: "X-1", Name: "Odd", AccountType: "CONTRA"}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentCode := "A-000"
	suite.mockRepo.On("FindAccountByCode", ctx, "E-900").Return(nil, apperrors.NewNotFoundError("account", "E-900")).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, parentCode).Return(&domain.Account{AccountID: "p1", Code: parentCode, AccountType: domain.Asset}, nil).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code: "E-900", Name: "Sundry", AccountType: domain.Expense, ParentAccountCode: &parentCode,
	}, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "E-100").Return(nil, apperrors.NewNotFoundError("account", "E-100")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "E-100", Name: "Medical", AccountType: domain.Expense}, "u1")

	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "Z-1").Return(nil, apperrors.NewNotFoundError("account", "Z-1")).Once()

	acc, err := suite.service.GetAccountByCode(ctx, "Z-1")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "E-100").Return(&domain.Account{AccountID: "a1", Code: "E-100", IsActive: true}, nil).Once()
	suite.mockRepo.On("SetAccountActive", ctx, "a1", false, "u1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.DeactivateAccount(ctx, "E-100", "u1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "E-100").Return(&domain.Account{AccountID: "a1", Code: "E-100"}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, "E-100", "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetAccountActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestAccountService_UpdateRejectsCycles(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewAccountService(store)

	_, err := svc.CreateAccount(ctx, dto.CreateAccountRequest{Code: "E-000", Name: "Programme costs", AccountType: domain.Expense}, "u1")
	assert.NoError(t, err)
	parent := "E-000"
	_, err = svc.CreateAccount(ctx, dto.CreateAccountRequest{Code: "E-100", Name: "Medical", AccountType: domain.Expense, ParentAccountCode: &parent}, "u1")
	assert.NoError(t, err)

	child := "E-100"
	_, err = svc.UpdateAccount(ctx, "E-000", dto.UpdateAccountRequest{ParentAccountCode: &child}, "u1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	name := "Medical Supplies"
	updated, err := svc.UpdateAccount(ctx, "E-100", dto.UpdateAccountRequest{Name: &name}, "u2")
	assert.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "u2", updated.LastUpdatedBy)
}

func TestAccountService_ImportAccountsParentsFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewAccountService(store)

	parent := "E-000"
	created, err := svc.ImportAccounts(ctx, []dto.CreateAccountRequest{
		{Code: "E-100", Name: "Medical", AccountType: domain.Expense, ParentAccountCode: &parent},
		{Code: "E-000", Name: "Programme costs", AccountType: domain.Expense},
		{Code: "E-000", Name: "Duplicate row", AccountType: domain.Expense},
		{Code: "C-001", Name: "Cash", AccountType: domain.Asset, IsCash: true},
	}, "importer")

	assert.NoError(t, err)
	assert.Equal(t, 3, created)

	again, err := svc.ImportAccounts(ctx, []dto.CreateAccountRequest{{Code: "C-001", Name: "Cash", AccountType: domain.Asset}}, "importer")
	assert.NoError(t, err)
	assert.Zero(t, again)

	orphan := "NOPE"
	_, err = svc.ImportAccounts(ctx, []dto.CreateAccountRequest{{Code: "E-200", Name: "x", AccountType: domain.Expense, ParentAccountCode: &orphan}}, "importer")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
