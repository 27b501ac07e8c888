package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// ReportQuery carries the query-string predicates shared by listings and reports.
type ReportQuery struct {
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Department string `form:"department"`
	Account    string `form:"account"`
	// Status is a comma separated list, e.g. "pending,approved".
	Status string `form:"status" binding:"omitempty,voucher_status"`
	Type   string `form:"type" binding:"omitempty,voucher_type"`
}

// ToFilter converts the query into a domain filter. Empty values leave the dimension unconstrained.
func (q ReportQuery) ToFilter() (domain.Filter, error) {
	var f domain.Filter
	if q.From != "" {
		from, err := time.Parse(domain.DateLayout, q.From)
		if err != nil {
			return f, fmt.Errorf("invalid from date %q", q.From)
		}
		f.DateRange.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(domain.DateLayout, q.To)
		if err != nil {
			return f, fmt.Errorf("invalid to date %q", q.To)
		}
		f.DateRange.To = &to
	}
	f.DepartmentID = strings.TrimSpace(q.Department)
	f.AccountCode = strings.TrimSpace(q.Account)
	f.VoucherType = domain.VoucherType(q.Type)
	for _, s := range strings.Split(q.Status, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			continue
		}
		f.Statuses = append(f.Statuses, domain.VoucherStatus(s))
	}
	return f, f.Validate()
}

// ReportResponse wraps any report with the parameters it was computed for.
type ReportResponse[T any] struct {
	GeneratedAt time.Time `json:"generatedAt"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Report      T         `json:"report"`
}

// NewReportResponse stamps a report with its date range.
func NewReportResponse[T any](report T, rng domain.DateRange) ReportResponse[T] {
	res := ReportResponse[T]{GeneratedAt: time.Now().UTC(), Report: report}
	if rng.From != nil {
		res.From = rng.From.Format(domain.DateLayout)
	}
	if rng.To != nil {
		res.To = rng.To.Format(domain.DateLayout)
	}
	return res
}
