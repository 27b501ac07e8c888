package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in reporting order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// ParseAccountType accepts the canonical upper-case form as well as the
// title-case spelling used by the chart of accounts sheets ("Asset").
func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AccountTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// IsDebitNormal reports whether the account's balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Rank orders account types for report output.
func (t AccountType) Rank() int {
	for i, known := range AccountTypes {
		if t == known {
			return i
		}
	}
	return len(AccountTypes)
}

// Account is one line of the chart of accounts. Code is the stable natural key.
type Account struct {
	AccountID       string      `json:"accountID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID,omitempty"`
	Description     string      `json:"description,omitempty"`
	IsCash          bool        `json:"isCash"` // cash or bank account, feeds the cashbook
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	Type       *AccountType
	ActiveOnly bool
}
