package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
)

var accountColumns = []string{"code", "name", "type", "parent_code", "is_cash", "description"}

const (
	colCode = iota
	colName
	colType
	colParent
	colCash
	colDesc
)

// WriteAccounts writes the chart of accounts in the same layout ReadAccounts accepts.
func WriteAccounts(w io.Writer, accounts []domain.Account) error {
	codes := make(map[string]string, len(accounts))
	for _, a := range accounts {
		codes[a.AccountID] = a.Code
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(accountColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		row := make([]string, len(accountColumns))
		row[colCode] = a.Code
		row[colName] = a.Name
		row[colType] = string(a.AccountType)
		row[colParent] = codes[a.ParentAccountID]
		row[colCash] = strconv.FormatBool(a.IsCash)
		row[colDesc] = a.Description
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAccounts parses a chart CSV with a header row into create requests.
func ReadAccounts(r io.Reader) ([]dto.CreateAccountRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(accountColumns)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	reqs := make([]dto.CreateAccountRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		isCash := false
		if raw := strings.TrimSpace(rec[colCash]); raw != "" {
			isCash, err = strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid is_cash %q", i+2, raw)
			}
		}
		req := dto.CreateAccountRequest{
			Code:        strings.TrimSpace(rec[colCode]),
			Name:        strings.TrimSpace(rec[colName]),
			AccountType: domain.AccountType(strings.ToUpper(strings.TrimSpace(rec[colType]))),
			Description: rec[colDesc],
			IsCash:      isCash,
		}
		if parent := strings.TrimSpace(rec[colParent]); parent != "" {
			req.ParentAccountCode = &parent
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
