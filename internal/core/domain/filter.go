package domain

import (
	"fmt"
	"slices"
	"time"
)

// DateRange is an inclusive calendar date range. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether d falls inside the range. Only the calendar date of d is compared.
func (r DateRange) Contains(d time.Time) bool {
	day := TruncateToDate(d)
	if r.From != nil && day.Before(TruncateToDate(*r.From)) {
		return false
	}
	if r.To != nil && day.After(TruncateToDate(*r.To)) {
		return false
	}
	return true
}

// Validate rejects inverted ranges.
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && TruncateToDate(*r.From).After(TruncateToDate(*r.To)) {
		return fmt.Errorf("date range start %s is after end %s", r.From.Format(DateLayout), r.To.Format(DateLayout))
	}
	return nil
}

// Filter holds the conjunctive predicates applied ahead of listing and aggregation.
// A zero-valued field means no constraint on that dimension.
type Filter struct {
	DateRange    DateRange
	DepartmentID string
	AccountCode  string
	Statuses     []VoucherStatus
	VoucherType  VoucherType
	// CashOnly restricts entries to cash and bank accounts.
	CashOnly bool
}

// Validate checks that every present predicate is well formed.
func (f Filter) Validate() error {
	if err := f.DateRange.Validate(); err != nil {
		return err
	}
	for _, s := range f.Statuses {
		if !s.IsValid() {
			return fmt.Errorf("unknown voucher status %q", s)
		}
	}
	if f.VoucherType != "" && !f.VoucherType.IsValid() {
		return fmt.Errorf("unknown voucher type %q", f.VoucherType)
	}
	return nil
}

// WithStatuses returns a copy of f restricted to the given statuses.
func (f Filter) WithStatuses(statuses ...VoucherStatus) Filter {
	f.Statuses = statuses
	return f
}

func (f Filter) matchesStatus(s VoucherStatus) bool {
	return len(f.Statuses) == 0 || slices.Contains(f.Statuses, s)
}

// MatchesEntry applies every predicate to a posted entry.
func (f Filter) MatchesEntry(e PostedEntry) bool {
	if !f.DateRange.Contains(e.EntryDate) {
		return false
	}
	if f.DepartmentID != "" && e.DepartmentID != f.DepartmentID {
		return false
	}
	if f.AccountCode != "" && e.AccountCode != f.AccountCode {
		return false
	}
	if f.CashOnly && !e.IsCash {
		return false
	}
	if f.VoucherType != "" && e.VoucherType != f.VoucherType {
		return false
	}
	return f.matchesStatus(e.VoucherStatus)
}

// MatchesVoucher applies the voucher-level predicates. AccountCode is ignored.
func (f Filter) MatchesVoucher(v Voucher) bool {
	if !f.DateRange.Contains(v.Date) {
		return false
	}
	if f.DepartmentID != "" && v.DepartmentID != f.DepartmentID {
		return false
	}
	if f.VoucherType != "" && v.Type != f.VoucherType {
		return false
	}
	return f.matchesStatus(v.Status)
}
