package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixedNow is 2024-10-15 09:00 in Nairobi.
var fixedNow = time.Date(2024, 10, 15, 6, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func nairobi(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

// seedLedger builds a small NGO chart and two departments in a fresh memory store.
func seedLedger(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	accounts := []domain.Account{
		{AccountID: "acc-cash", Code: "C-001", Name: "Cash on Hand", AccountType: domain.Asset, IsCash: true, IsActive: true},
		{AccountID: "acc-bank", Code: "B-001", Name: "Bank", AccountType: domain.Asset, IsCash: true, IsActive: true},
		{AccountID: "acc-fund", Code: "Q-100", Name: "General Fund", AccountType: domain.Equity, IsActive: true},
		{AccountID: "acc-grant", Code: "R-200", Name: "Grants", AccountType: domain.Revenue, IsActive: true},
		{AccountID: "acc-med", Code: "E-100", Name: "Medical Supplies", AccountType: domain.Expense, IsActive: true},
		{AccountID: "acc-school", Code: "E-200", Name: "School Materials", AccountType: domain.Expense, IsActive: true},
		{AccountID: "acc-old", Code: "E-900", Name: "Retired", AccountType: domain.Expense, IsActive: false},
	}
	for _, a := range accounts {
		require.NoError(t, store.SaveAccount(ctx, a))
	}

	departments := []domain.Department{
		{DepartmentID: "dept-health", Name: "Health", Budget: decimal.NewFromInt(1200000), Status: domain.DepartmentActive, ExpenseAccountCode: "E-100"},
		{DepartmentID: "dept-edu", Name: "Education", Budget: decimal.NewFromInt(800000), Status: domain.DepartmentActive, ExpenseAccountCode: "E-200"},
		{DepartmentID: "dept-closed", Name: "Closed Project", Budget: decimal.Zero, Status: domain.DepartmentInactive},
	}
	for _, d := range departments {
		require.NoError(t, store.SaveDepartment(ctx, d))
	}
	return store
}

func strPtr(s string) *string { return &s }
