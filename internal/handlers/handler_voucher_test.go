package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/handlers"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "ngo-ledger-test"
)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.VoucherWithEntries, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherWithEntries), args.Error(1)
}

func (m *MockVoucherService) ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Voucher), next, args.Error(2)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.VoucherWithEntries, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherWithEntries), args.Error(1)
}

func (m *MockVoucherService) ApproveVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) RejectVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

// generateTestToken creates a signed JWT for userID.
func generateTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// --- Test Suite ---
type VoucherHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockVoucherService *MockVoucherService
	userID             string
	token              string
}

func (suite *VoucherHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.router = gin.New()
	suite.mockVoucherService = new(MockVoucherService)
	suite.userID = uuid.NewString()
	suite.token = generateTestToken(suite.T(), suite.userID)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterVoucherRoutes(v1, suite.mockVoucherService)
}

func (suite *VoucherHandlerTestSuite) do(method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleVoucher(status domain.VoucherStatus) domain.Voucher {
	return domain.Voucher{
		VoucherID:     uuid.NewString(),
		VoucherNumber: "V-2024-00001",
		FiscalYear:    2024,
		Sequence:      1,
		Date:          time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
		DepartmentID:  "dept-health",
		Description:   "Medical supplies",
		Amount:        decimal.NewFromInt(450000),
		Type:          domain.VoucherExpense,
		Status:        status,
		CreatedBy:     "maker",
	}
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_Success() {
	v := sampleVoucher(domain.VoucherPending)
	suite.mockVoucherService.On("CreateVoucher",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateVoucherRequest) bool {
			return req.IdempotencyKey == "key-1" && req.Amount.Equal(decimal.NewFromInt(450000)) && req.Department == "Health"
		}),
		suite.userID,
	).Return(&domain.VoucherWithEntries{Voucher: v}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/vouchers", map[string]any{
		"department":  "Health",
		"description": "Medical supplies",
		"amount":      "450000",
		"type":        "expense",
	}, map[string]string{handlers.IdempotencyKeyHeader: "key-1"})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("V-2024-00001", res.VoucherNumber)
	suite.Equal("2024-10-15", res.Date)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_BindingErrors() {
	cases := map[string]map[string]any{
		"unknown type":    {"department": "Health", "description": "x", "amount": "10", "type": "donation"},
		"missing dept":    {"description": "x", "amount": "10", "type": "expense"},
		"bad date":        {"department": "Health", "description": "x", "amount": "10", "type": "expense", "date": "15/10/2024"},
		"non-numeric amt": {"department": "Health", "description": "x", "amount": "ten", "type": "expense"},
	}
	for name, body := range cases {
		w := suite.do(http.MethodPost, "/api/v1/vouchers", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_ErrorMapping() {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewValidationError("amount must be positive"), http.StatusBadRequest},
		{fmt.Errorf("%w: key in flight", apperrors.ErrConflict), http.StatusConflict},
		{apperrors.NewStorageError("insert voucher", fmt.Errorf("connection reset")), http.StatusServiceUnavailable},
		{&apperrors.ImbalanceError{VoucherID: "v1", Debit: decimal.NewFromInt(1), Credit: decimal.Zero}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.mockVoucherService.On("CreateVoucher", mock.Anything, mock.Anything, suite.userID).Return(nil, tc.err).Once()
		w := suite.do(http.MethodPost, "/api/v1/vouchers", map[string]any{
			"department": "Health", "description": "x", "amount": "10", "type": "expense",
		}, nil)
		suite.Equal(tc.status, w.Code, tc.err.Error())
	}
}

func (suite *VoucherHandlerTestSuite) TestApprove_InvalidState() {
	suite.mockVoucherService.On("ApproveVoucher", mock.Anything, "v-1", suite.userID).
		Return(nil, apperrors.NewInvalidStateError("voucher is rejected")).Once()

	w := suite.do(http.MethodPost, "/api/v1/vouchers/v-1/approve", nil, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "voucher is rejected")
}

func (suite *VoucherHandlerTestSuite) TestReject_Success() {
	v := sampleVoucher(domain.VoucherRejected)
	suite.mockVoucherService.On("RejectVoucher", mock.Anything, v.VoucherID, suite.userID).Return(&v, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/vouchers/"+v.VoucherID+"/reject", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"rejected"`)
}

func (suite *VoucherHandlerTestSuite) TestGetVoucher_NotFound() {
	suite.mockVoucherService.On("GetVoucher", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("voucher", "missing")).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/missing", nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestListVouchers_FilterAndPaging() {
	next := "cursor-2"
	suite.mockVoucherService.On("ListVouchers", mock.Anything, mock.MatchedBy(func(p domain.VoucherListParams) bool {
		return p.Limit == 2 && p.Filter.DepartmentID == "Health" &&
			len(p.Filter.Statuses) == 2 && p.Filter.Statuses[1] == domain.VoucherApproved &&
			p.NextToken != nil && *p.NextToken == "cursor-1"
	})).Return([]domain.Voucher{sampleVoucher(domain.VoucherPending)}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers?department=Health&status=pending,approved&limit=2&nextToken=cursor-1", nil, nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var res dto.ListVouchersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Vouchers, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("cursor-2", *res.NextToken)
}

func (suite *VoucherHandlerTestSuite) TestListVouchers_BadQuery() {
	for _, url := range []string{
		"/api/v1/vouchers?status=archived",
		"/api/v1/vouchers?from=2024-10-31&to=2024-10-01",
		"/api/v1/vouchers?limit=0",
		"/api/v1/vouchers?type=gift",
	} {
		w := suite.do(http.MethodGet, url, nil, nil)
		suite.Equal(http.StatusBadRequest, w.Code, url)
	}
}

func (suite *VoucherHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/vouchers", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/vouchers", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestVoucherHandler(t *testing.T) {
	suite.Run(t, new(VoucherHandlerTestSuite))
}
