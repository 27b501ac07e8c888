package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/cache"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockObserver records ledger events.
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) VoucherCreated(t domain.VoucherType) { m.Called(t) }

func (m *MockObserver) VoucherTransitioned(s domain.VoucherStatus) { m.Called(s) }

func (m *MockObserver) TrialBalanceComputed(diff decimal.Decimal) { m.Called(diff) }

type VoucherServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	observer *MockObserver
	service  portssvc.VoucherSvcFacade
	ctx      context.Context
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = seedLedger(suite.T())
	suite.observer = new(MockObserver)
	suite.observer.On("VoucherCreated", mock.Anything).Maybe()
	suite.observer.On("VoucherTransitioned", mock.Anything).Maybe()
	suite.service = services.NewVoucherService(suite.store, suite.store, suite.store, suite.store,
		services.WithClock(fixedClock),
		services.WithLocation(nairobi(suite.T())),
		services.WithIdempotencyStore(cache.NewMemoryIdempotencyStore(time.Hour)),
		services.WithVoucherObserver(suite.observer),
	)
}

func (suite *VoucherServiceTestSuite) expense(amount int64) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		Department:  "Health",
		Description: "Medical supplies for clinic",
		Amount:      decimal.NewFromInt(amount),
		Type:        domain.VoucherExpense,
	}
}

func (suite *VoucherServiceTestSuite) journalTotals() (decimal.Decimal, decimal.Decimal, int) {
	var debit, credit decimal.Decimal
	n := 0
	for e, err := range suite.store.Entries(suite.ctx, domain.Filter{}) {
		suite.Require().NoError(err)
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
		n++
	}
	return debit, credit, n
}

func (suite *VoucherServiceTestSuite) TestCreateExpense_PostsBalancedPair() {
	created, err := suite.service.CreateVoucher(suite.ctx, suite.expense(450000), "maker")

	suite.Require().NoError(err)
	suite.Equal("V-2024-00001", created.VoucherNumber)
	suite.Equal(domain.VoucherPending, created.Status)
	suite.Equal("Health", created.DepartmentName)
	suite.Equal("2024-10-15", created.Date.Format(domain.DateLayout))
	suite.Require().Len(created.Entries, 2)

	debit, credit := created.Entries[0], created.Entries[1]
	suite.Equal("E-100", debit.AccountCode)
	suite.True(debit.Debit.Equal(decimal.NewFromInt(450000)))
	suite.Equal("C-001", credit.AccountCode)
	suite.True(credit.Credit.Equal(decimal.NewFromInt(450000)))
	suite.observer.AssertCalled(suite.T(), "VoucherCreated", domain.VoucherExpense)
}

func (suite *VoucherServiceTestSuite) TestCreateIncome_DebitsCashCreditsRevenue() {
	created, err := suite.service.CreateVoucher(suite.ctx, dto.CreateVoucherRequest{
		Department:  "dept-edu",
		Description: "Donor grant",
		Amount:      decimal.NewFromInt(1500000),
		Type:        domain.VoucherIncome,
	}, "maker")

	suite.Require().NoError(err)
	suite.Equal("C-001", created.Entries[0].AccountCode)
	suite.Equal("R-200", created.Entries[1].AccountCode)
	suite.Equal("Education", created.DepartmentName)
}

func (suite *VoucherServiceTestSuite) TestCreateTransfer() {
	req := dto.CreateVoucherRequest{
		Department:             "Health",
		Description:            "Bank deposit",
		Amount:                 decimal.NewFromInt(20000),
		Type:                   domain.VoucherTransfer,
		DestinationAccountCode: strPtr("B-001"),
	}
	created, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.Require().NoError(err)
	suite.Equal("B-001", created.Entries[0].AccountCode)
	suite.Equal("C-001", created.Entries[1].AccountCode)

	req.DestinationAccountCode = strPtr("C-001")
	_, err = suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.ErrorIs(err, apperrors.ErrValidation)

	req.DestinationAccountCode = nil
	_, err = suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_ValidationLeavesJournalUntouched() {
	cases := map[string]dto.CreateVoucherRequest{
		"zero amount":         {Department: "Health", Description: "x", Amount: decimal.Zero, Type: domain.VoucherExpense},
		"negative amount":     {Department: "Health", Description: "x", Amount: decimal.NewFromInt(-5), Type: domain.VoucherExpense},
		"sub-cent amount":     {Department: "Health", Description: "x", Amount: decimal.RequireFromString("1.005"), Type: domain.VoucherExpense},
		"overflowing amount":  {Department: "Health", Description: "x", Amount: decimal.New(1, 16), Type: domain.VoucherExpense},
		"unknown department":  {Department: "Sports", Description: "x", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense},
		"inactive department": {Department: "Closed Project", Description: "x", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense, ExpenseAccountCode: strPtr("E-100")},
		"blank description":   {Department: "Health", Description: "  ", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense},
		"unknown type":        {Department: "Health", Description: "x", Amount: decimal.NewFromInt(5), Type: "gift"},
		"inactive account":    {Department: "Health", Description: "x", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense, ExpenseAccountCode: strPtr("E-900")},
		"non-expense account": {Department: "Health", Description: "x", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense, ExpenseAccountCode: strPtr("R-200")},
		"bad date":            {Department: "Health", Description: "x", Amount: decimal.NewFromInt(5), Type: domain.VoucherExpense, Date: strPtr("15/10/2024")},
	}
	for name, req := range cases {
		suite.Run(name, func() {
			created, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
			suite.Nil(created)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	_, _, n := suite.journalTotals()
	suite.Zero(n)
	count, err := suite.store.CountVouchers(suite.ctx, domain.Filter{})
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *VoucherServiceTestSuite) TestNumbersFollowFiscalYear() {
	june := suite.expense(100)
	june.Date = strPtr("2024-06-30")
	july := suite.expense(100)
	july.Date = strPtr("2024-07-01")

	a, err := suite.service.CreateVoucher(suite.ctx, june, "maker")
	suite.Require().NoError(err)
	b, err := suite.service.CreateVoucher(suite.ctx, july, "maker")
	suite.Require().NoError(err)
	c, err := suite.service.CreateVoucher(suite.ctx, july, "maker")
	suite.Require().NoError(err)

	suite.Equal("V-2023-00001", a.VoucherNumber)
	suite.Equal("V-2024-00001", b.VoucherNumber)
	suite.Equal("V-2024-00002", c.VoucherNumber)
}

func (suite *VoucherServiceTestSuite) TestApproveThenRejectIsInvalid() {
	created, err := suite.service.CreateVoucher(suite.ctx, suite.expense(1000), "maker")
	suite.Require().NoError(err)

	approved, err := suite.service.ApproveVoucher(suite.ctx, created.VoucherID, "checker")
	suite.Require().NoError(err)
	suite.Equal(domain.VoucherApproved, approved.Status)
	suite.Equal("checker", *approved.ApprovedBy)
	suite.observer.AssertCalled(suite.T(), "VoucherTransitioned", domain.VoucherApproved)

	_, err = suite.service.RejectVoucher(suite.ctx, created.VoucherID, "checker")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	_, err = suite.service.ApproveVoucher(suite.ctx, created.VoucherID, "checker")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *VoucherServiceTestSuite) TestRejectAppendsReversal() {
	created, err := suite.service.CreateVoucher(suite.ctx, suite.expense(2500), "maker")
	suite.Require().NoError(err)

	rejected, err := suite.service.RejectVoucher(suite.ctx, created.VoucherID, "checker")
	suite.Require().NoError(err)
	suite.Equal(domain.VoucherRejected, rejected.Status)

	detail, err := suite.service.GetVoucher(suite.ctx, created.VoucherID)
	suite.Require().NoError(err)
	suite.Require().Len(detail.Entries, 4)
	reversals := 0
	for _, e := range detail.Entries {
		if e.IsReversal {
			reversals++
			suite.Equal(domain.VoucherRejected, e.VoucherStatus)
		}
	}
	suite.Equal(2, reversals)

	// Approving a rejected voucher fails and changes nothing.
	_, _, before := suite.journalTotals()
	_, err = suite.service.ApproveVoucher(suite.ctx, created.VoucherID, "checker")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	debit, credit, after := suite.journalTotals()
	suite.Equal(before, after)
	suite.True(debit.Equal(credit))
}

func (suite *VoucherServiceTestSuite) TestTransitionUnknownVoucher() {
	_, err := suite.service.ApproveVoucher(suite.ctx, "missing", "checker")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestIdempotentReplay() {
	req := suite.expense(700)
	req.IdempotencyKey = "key-1"

	first, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.Require().NoError(err)
	second, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.Require().NoError(err)

	suite.Equal(first.VoucherID, second.VoucherID)
	count, err := suite.store.CountVouchers(suite.ctx, domain.Filter{})
	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func (suite *VoucherServiceTestSuite) TestIdempotencyKeyReleasedOnFailure() {
	bad := suite.expense(0)
	bad.IdempotencyKey = "key-2"
	_, err := suite.service.CreateVoucher(suite.ctx, bad, "maker")
	suite.ErrorIs(err, apperrors.ErrValidation)

	good := suite.expense(10)
	good.IdempotencyKey = "key-2"
	_, err = suite.service.CreateVoucher(suite.ctx, good, "maker")
	suite.NoError(err)
}

func (suite *VoucherServiceTestSuite) TestIdempotencyKeyReusedWithDifferentBody() {
	first := suite.expense(100)
	first.IdempotencyKey = "k1"
	_, err := suite.service.CreateVoucher(suite.ctx, first, "maker")
	suite.Require().NoError(err)

	changed := suite.expense(999)
	changed.IdempotencyKey = "k1"
	_, err = suite.service.CreateVoucher(suite.ctx, changed, "maker")
	suite.ErrorIs(err, apperrors.ErrConflict)

	count, err := suite.store.CountVouchers(suite.ctx, domain.Filter{})
	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func (suite *VoucherServiceTestSuite) TestIdempotencyReplayIgnoresAmountScale() {
	req := suite.expense(700)
	req.IdempotencyKey = "k1"
	first, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.Require().NoError(err)

	req.Amount = decimal.RequireFromString("700.00")
	req.Description = "  " + req.Description
	second, err := suite.service.CreateVoucher(suite.ctx, req, "maker")
	suite.Require().NoError(err)
	suite.Equal(first.VoucherID, second.VoucherID)
}

func (suite *VoucherServiceTestSuite) TestIdempotencyKeyScopedPerUser() {
	alice := suite.expense(100)
	alice.IdempotencyKey = "k1"
	fromAlice, err := suite.service.CreateVoucher(suite.ctx, alice, "alice")
	suite.Require().NoError(err)

	bob := dto.CreateVoucherRequest{
		Department:     "Health",
		Description:    "Donor grant",
		Amount:         decimal.NewFromInt(999999),
		Type:           domain.VoucherIncome,
		IdempotencyKey: "k1",
	}
	fromBob, err := suite.service.CreateVoucher(suite.ctx, bob, "bob")
	suite.Require().NoError(err)

	suite.NotEqual(fromAlice.VoucherID, fromBob.VoucherID)
	suite.Equal("bob", fromBob.CreatedBy)
	suite.Equal(domain.VoucherIncome, fromBob.Type)
	suite.True(fromBob.Amount.Equal(decimal.NewFromInt(999999)))

	count, err := suite.store.CountVouchers(suite.ctx, domain.Filter{})
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *VoucherServiceTestSuite) TestConcurrentCreatesAreGapFree() {
	const n = 40
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := suite.service.CreateVoucher(suite.ctx, suite.expense(10), "maker")
			if suite.NoError(err) {
				numbers <- v.VoucherNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		suite.False(seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	suite.Len(seen, n)
	suite.True(seen["V-2024-00001"])
	suite.True(seen["V-2024-00040"])
}

func (suite *VoucherServiceTestSuite) TestListVouchers() {
	for i := 0; i < 3; i++ {
		_, err := suite.service.CreateVoucher(suite.ctx, suite.expense(int64(10+i)), "maker")
		suite.Require().NoError(err)
	}
	income := dto.CreateVoucherRequest{Department: "Education", Description: "Grant", Amount: decimal.NewFromInt(99), Type: domain.VoucherIncome}
	_, err := suite.service.CreateVoucher(suite.ctx, income, "maker")
	suite.Require().NoError(err)

	page, next, err := suite.service.ListVouchers(suite.ctx, domain.VoucherListParams{
		Filter: domain.Filter{DepartmentID: "health"},
		Limit:  2,
	})
	suite.Require().NoError(err)
	suite.Len(page, 2)
	suite.Require().NotNil(next)
	suite.Equal("V-2024-00003", page[0].VoucherNumber)

	rest, next, err := suite.service.ListVouchers(suite.ctx, domain.VoucherListParams{
		Filter:    domain.Filter{DepartmentID: "health"},
		Limit:     2,
		NextToken: next,
	})
	suite.Require().NoError(err)
	suite.Len(rest, 1)
	suite.Nil(next)

	_, _, err = suite.service.ListVouchers(suite.ctx, domain.VoucherListParams{Filter: domain.Filter{DepartmentID: "Nowhere"}})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
