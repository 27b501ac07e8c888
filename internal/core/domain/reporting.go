package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the rounding epsilon for report balance checks (one cent).
var BalanceTolerance = decimal.New(1, -2)

// CashbookRow is one movement on a cash or bank account.
type CashbookRow struct {
	EntryID        string          `json:"entryID"`
	Date           time.Time       `json:"date"`
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"`
	Description    string          `json:"description"`
	DepartmentName string          `json:"departmentName"`
	AccountCode    string          `json:"accountCode"`
	Type           VoucherType     `json:"type"`
	Status         VoucherStatus   `json:"status"`
	CashIn         decimal.Decimal `json:"cashIn"`
	CashOut        decimal.Decimal `json:"cashOut"`
	Balance        decimal.Decimal `json:"balance"`
}

// Cashbook is the running-balance view over cash and bank accounts.
type Cashbook struct {
	Rows     []CashbookRow   `json:"rows"`
	TotalIn  decimal.Decimal `json:"totalIn"`
	TotalOut decimal.Decimal `json:"totalOut"`
	Closing  decimal.Decimal `json:"closingBalance"`
}

// LedgerRow is one line of the general ledger.
type LedgerRow struct {
	EntryID        string          `json:"entryID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	DepartmentName string          `json:"departmentName"`
	Status         VoucherStatus   `json:"status"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	// Balance is the account's running balance on its normal side.
	Balance decimal.Decimal `json:"balance"`
}

// LedgerAccountSummary totals one account's ledger lines.
type LedgerAccountSummary struct {
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// GeneralLedger lists rows grouped by account, accounts in chart order.
type GeneralLedger struct {
	Rows     []LedgerRow            `json:"rows"`
	Accounts []LedgerAccountSummary `json:"accounts"`
}

// AccountBalance is a trial balance row.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// Balance is signed on the account's normal side.
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance totals debits and credits per account.
type TrialBalance struct {
	Rows        []AccountBalance `json:"rows"`
	TotalDebit  decimal.Decimal  `json:"totalDebit"`
	TotalCredit decimal.Decimal  `json:"totalCredit"`
	Difference  decimal.Decimal  `json:"difference"`
	IsBalanced  bool             `json:"isBalanced"`
	Warning     string           `json:"warning,omitempty"`
}

// AccountAmount is an account with its signed balance in a financial statement.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheet partitions balance-sheet accounts by type.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Difference       decimal.Decimal `json:"difference"`
	IsBalanced       bool            `json:"isBalanced"`
	Warning          string          `json:"warning,omitempty"`
}

// IncomeStatement partitions revenue and expense accounts.
type IncomeStatement struct {
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// DepartmentSpend is the derived budget utilization of one department.
type DepartmentSpend struct {
	DepartmentID   string           `json:"departmentID"`
	DepartmentName string           `json:"departmentName"`
	Status         DepartmentStatus `json:"status"`
	Budget         decimal.Decimal  `json:"budget"`
	Spent          decimal.Decimal  `json:"spent"`
	Remaining      decimal.Decimal  `json:"remaining"`
	Utilization    decimal.Decimal  `json:"utilization"`
	VoucherCount   int              `json:"voucherCount"`
}

// FinancialSummary is the dashboard headline figures.
type FinancialSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	CashReceived     decimal.Decimal `json:"cashReceived"`
	CashDisbursed    decimal.Decimal `json:"cashDisbursed"`
	PendingVouchers  int             `json:"pendingVouchers"`
}
