// Package memory is an in-process implementation of the repository ports.
// A single mutex serializes writers, which gives the same atomicity and
// numbering guarantees as the serializable PostgreSQL path.
package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/pagination"
)

// Store holds every aggregate behind one RWMutex.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]domain.Account
	codes       map[string]string // code -> account ID
	departments map[string]domain.Department
	vouchers    map[string]domain.Voucher
	sequences   map[string]int
	entries     []domain.JournalEntry
	lastSeq     int64
}

var (
	_ portsrepo.AccountRepositoryFacade    = (*Store)(nil)
	_ portsrepo.DepartmentRepositoryFacade = (*Store)(nil)
	_ portsrepo.VoucherRepositoryFacade    = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade    = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    map[string]domain.Account{},
		codes:       map[string]string{},
		departments: map[string]domain.Department{},
		vouchers:    map[string]domain.Voucher{},
		sequences:   map[string]int{},
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    s,
		DepartmentRepo: s,
		VoucherRepo:    s,
		JournalRepo:    s,
	}
}

// --- accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codes[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", code)
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if id, ok := s.codes[code]; ok {
			out[code] = s.accounts[id]
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if filter.Type != nil && acc.AccountType != *filter.Type {
			continue
		}
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		out = append(out, acc)
	}
	accounting.SortAccounts(out)
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.codes[account.Code]; exists {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	s.codes[account.Code] = account.AccountID
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account", account.AccountID)
	}
	cur.Name = account.Name
	cur.Description = account.Description
	cur.ParentAccountID = account.ParentAccountID
	cur.LastUpdatedAt = account.LastUpdatedAt
	cur.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = cur
	return nil
}

func (s *Store) SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account", accountID)
	}
	cur.IsActive = active
	cur.LastUpdatedAt = now
	cur.LastUpdatedBy = userID
	s.accounts[accountID] = cur
	return nil
}

// --- departments ---

func (s *Store) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[departmentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("department", departmentID)
	}
	return &d, nil
}

func (s *Store) FindDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return &d, nil
		}
	}
	return nil, apperrors.NewNotFoundError("department", name)
}

func (s *Store) ListDepartments(ctx context.Context, status *domain.DepartmentStatus) ([]domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Department, 0, len(s.departments))
	for _, d := range s.departments {
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (s *Store) SaveDepartment(ctx context.Context, department domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if strings.EqualFold(d.Name, department.Name) {
			return fmt.Errorf("%w: department %s", apperrors.ErrDuplicate, department.Name)
		}
	}
	s.departments[department.DepartmentID] = department
	return nil
}

func (s *Store) UpdateDepartment(ctx context.Context, department domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[department.DepartmentID]; !ok {
		return apperrors.NewNotFoundError("department", department.DepartmentID)
	}
	s.departments[department.DepartmentID] = department
	return nil
}

// --- vouchers ---

func (s *Store) withDepartmentName(v domain.Voucher) domain.Voucher {
	if d, ok := s.departments[v.DepartmentID]; ok {
		v.DepartmentName = d.Name
	}
	return v
}

func (s *Store) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vouchers[voucherID]
	if !ok {
		return nil, apperrors.NewNotFoundError("voucher", voucherID)
	}
	v = s.withDepartmentName(v)
	return &v, nil
}

func voucherNewerFirst(a, b domain.Voucher) int {
	if !a.Date.Equal(b.Date) {
		return b.Date.Compare(a.Date)
	}
	if a.FiscalYear != b.FiscalYear {
		return b.FiscalYear - a.FiscalYear
	}
	if a.Sequence != b.Sequence {
		return b.Sequence - a.Sequence
	}
	return strings.Compare(b.VoucherNumber, a.VoucherNumber)
}

func (s *Store) ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error) {
	var cursor *pagination.VoucherCursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeVoucherCursor(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
		cursor = &c
	}

	s.mu.RLock()
	all := make([]domain.Voucher, 0, len(s.vouchers))
	for _, v := range s.vouchers {
		if !params.Filter.MatchesVoucher(v) {
			continue
		}
		if cursor != nil && !cursor.After(v.Date, v.FiscalYear, v.Sequence, v.VoucherNumber) {
			continue
		}
		all = append(all, s.withDepartmentName(v))
	}
	s.mu.RUnlock()

	slices.SortFunc(all, voucherNewerFirst)

	limit := params.Limit
	if limit <= 0 {
		limit = len(all)
	}
	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	next := pagination.VoucherCursor{Date: last.Date, FiscalYear: last.FiscalYear, Sequence: last.Sequence, Number: last.VoucherNumber}.Encode()
	return page, &next, nil
}

func (s *Store) CountVouchers(ctx context.Context, filter domain.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.vouchers {
		if filter.MatchesVoucher(v) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateVoucher(ctx context.Context, series domain.VoucherSeries, voucher domain.Voucher, entries []domain.JournalEntry) (*domain.Voucher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vouchers[voucher.VoucherID]; exists {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, voucher.VoucherID)
	}
	if _, ok := s.departments[voucher.DepartmentID]; !ok {
		return nil, apperrors.NewValidationError("department %s does not exist", voucher.DepartmentID)
	}
	if err := s.checkBatchLocked(entries, voucher.VoucherID); err != nil {
		return nil, err
	}

	next := s.sequences[series.Key()] + 1
	voucher.FiscalYear = series.FiscalYear
	voucher.Sequence = next
	voucher.VoucherNumber = series.Format(next)

	s.vouchers[voucher.VoucherID] = voucher
	s.sequences[series.Key()] = next
	s.appendLocked(entries)

	out := s.withDepartmentName(voucher)
	return &out, nil
}

func (s *Store) TransitionVoucher(ctx context.Context, t portsrepo.VoucherTransition) (*domain.Voucher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vouchers[t.VoucherID]
	if !ok {
		return nil, apperrors.NewNotFoundError("voucher", t.VoucherID)
	}
	if !v.Status.CanTransitionTo(t.To) {
		return nil, apperrors.NewInvalidStateError("voucher %s is %s and cannot become %s", v.VoucherNumber, v.Status, t.To)
	}

	var reversal []domain.JournalEntry
	if t.Reverse != nil {
		var original []domain.JournalEntry
		for _, e := range s.entries {
			if e.VoucherID == v.VoucherID {
				original = append(original, e)
			}
		}
		var err error
		reversal, err = t.Reverse(original)
		if err != nil {
			return nil, err
		}
		if err := s.checkBatchLocked(reversal, v.VoucherID); err != nil {
			return nil, err
		}
	}

	by, at := t.By, t.At
	v.Status = t.To
	v.ApprovedBy = &by
	v.ApprovedAt = &at
	s.vouchers[v.VoucherID] = v
	s.appendLocked(reversal)

	out := s.withDepartmentName(v)
	return &out, nil
}

// --- journal ---

// checkBatchLocked validates a batch before anything is written. An empty voucherID
// accepts any voucher the store knows.
func (s *Store) checkBatchLocked(entries []domain.JournalEntry, voucherID string) error {
	if err := accounting.ValidateBatch(entries); err != nil {
		return err
	}
	for _, e := range entries {
		if voucherID != "" && e.VoucherID != voucherID {
			return apperrors.NewValidationError("entry belongs to voucher %s, expected %s", e.VoucherID, voucherID)
		}
		if voucherID == "" {
			if _, ok := s.vouchers[e.VoucherID]; !ok {
				return apperrors.NewValidationError("voucher %s does not exist", e.VoucherID)
			}
		}
		if _, ok := s.accounts[e.AccountID]; !ok {
			return apperrors.NewValidationError("account %s does not exist", e.AccountID)
		}
	}
	return nil
}

func (s *Store) appendLocked(entries []domain.JournalEntry) {
	for _, e := range entries {
		s.lastSeq++
		e.Seq = s.lastSeq
		e.EntryDate = domain.TruncateToDate(e.EntryDate)
		s.entries = append(s.entries, e)
	}
}

func (s *Store) AppendBatch(ctx context.Context, entries []domain.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBatchLocked(entries, ""); err != nil {
		return err
	}
	s.appendLocked(entries)
	return nil
}

func (s *Store) postedLocked(e domain.JournalEntry) domain.PostedEntry {
	p := domain.PostedEntry{JournalEntry: e}
	if acc, ok := s.accounts[e.AccountID]; ok {
		p.AccountCode = acc.Code
		p.AccountName = acc.Name
		p.AccountType = acc.AccountType
		p.IsCash = acc.IsCash
	}
	if v, ok := s.vouchers[e.VoucherID]; ok {
		p.VoucherNumber = v.VoucherNumber
		p.VoucherType = v.Type
		p.VoucherStatus = v.Status
		p.DepartmentID = v.DepartmentID
		if d, ok := s.departments[v.DepartmentID]; ok {
			p.DepartmentName = d.Name
		}
	}
	return p
}

// snapshot returns the matching entries in journal order under a read lock.
func (s *Store) snapshot(filter domain.Filter) []domain.PostedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PostedEntry, 0)
	for _, e := range s.entries {
		p := s.postedLocked(e)
		if filter.MatchesEntry(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return domain.EntryLess(out[i].JournalEntry, out[j].JournalEntry) })
	return out
}

func (s *Store) EntriesForVoucher(ctx context.Context, voucherID string) ([]domain.PostedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PostedEntry, 0, 2)
	for _, e := range s.entries {
		if e.VoucherID == voucherID {
			out = append(out, s.postedLocked(e))
		}
	}
	return out, nil
}

// Entries takes a fresh snapshot every time the sequence is ranged over.
func (s *Store) Entries(ctx context.Context, filter domain.Filter) iter.Seq2[domain.PostedEntry, error] {
	return func(yield func(domain.PostedEntry, error) bool) {
		for _, p := range s.snapshot(filter) {
			if err := ctx.Err(); err != nil {
				yield(domain.PostedEntry{}, err)
				return
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (s *Store) AccountTotals(ctx context.Context, filter domain.Filter) ([]domain.AccountTotal, error) {
	return accounting.SumByAccount(s.Entries(ctx, filter))
}
