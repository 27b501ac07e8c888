package pgsql

import (
	"context"
	"iter"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postedEntrySelect = `
	SELECT je.entry_id, je.entry_seq, je.voucher_id, je.account_id, je.debit, je.credit, je.description,
	       je.entry_date, je.is_reversal, je.created_at, je.created_by,
	       a.code, a.name, a.account_type, a.is_cash,
	       v.voucher_number, v.voucher_type, v.status, v.department_id, d.name
	FROM journal_entries je
	JOIN accounts a ON a.account_id = je.account_id
	JOIN vouchers v ON v.voucher_id = je.voucher_id
	JOIN departments d ON d.department_id = v.department_id`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository over the append-only journal.
func newPgxJournalRepository(pool *pgxpool.Pool, onRetry func()) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool, OnRetry: onRetry}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanPostedEntry(row pgx.Row) (models.PostedEntry, error) {
	var m models.PostedEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntrySeq,
		&m.VoucherID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.EntryDate,
		&m.IsReversal,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.AccountCode,
		&m.AccountName,
		&m.AccountType,
		&m.IsCash,
		&m.VoucherNumber,
		&m.VoucherType,
		&m.VoucherStatus,
		&m.DepartmentID,
		&m.DepartmentName,
	)
	return m, err
}

// insertEntries appends a batch inside tx. entry_seq is assigned by the database.
func insertEntries(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entries (entry_id, voucher_id, account_id, debit, credit, description, entry_date, is_reversal, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, e := range entries {
		m := mapping.ToModelJournalEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.VoucherID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.Description,
			m.EntryDate,
			m.IsReversal,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

func entriesForVoucher(ctx context.Context, q querier, voucherID string) ([]domain.PostedEntry, error) {
	rows, err := q.Query(ctx, postedEntrySelect+` WHERE je.voucher_id = $1 ORDER BY je.entry_seq;`, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms []models.PostedEntry
	for rows.Next() {
		m, err := scanPostedEntry(rows)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainPostedEntrySlice(ms), nil
}

func (r *PgxJournalRepository) EntriesForVoucher(ctx context.Context, voucherID string) ([]domain.PostedEntry, error) {
	entries, err := entriesForVoucher(ctx, r.Pool, voucherID)
	if err != nil {
		return nil, translateError(err, "list entries for voucher "+voucherID)
	}
	return entries, nil
}

// Entries streams matching entries straight from the result set. The query runs
// when the sequence is ranged over and its rows are released when the loop ends.
func (r *PgxJournalRepository) Entries(ctx context.Context, filter domain.Filter) iter.Seq2[domain.PostedEntry, error] {
	return func(yield func(domain.PostedEntry, error) bool) {
		w := entryWhere(filter)
		rows, err := r.Pool.Query(ctx, postedEntrySelect+w.sql()+` ORDER BY je.entry_date, je.entry_seq;`, w.args...)
		if err != nil {
			yield(domain.PostedEntry{}, translateError(err, "query journal"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanPostedEntry(rows)
			if err != nil {
				yield(domain.PostedEntry{}, translateError(err, "scan journal entry"))
				return
			}
			if !yield(mapping.ToDomainPostedEntry(m), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.PostedEntry{}, translateError(err, "iterate journal"))
		}
	}
}

// AccountTotals sums per account in the database.
func (r *PgxJournalRepository) AccountTotals(ctx context.Context, filter domain.Filter) ([]domain.AccountTotal, error) {
	w := entryWhere(filter)
	query := `
		SELECT je.account_id, COALESCE(SUM(je.debit), 0), COALESCE(SUM(je.credit), 0)
		FROM journal_entries je
		JOIN accounts a ON a.account_id = je.account_id
		JOIN vouchers v ON v.voucher_id = je.voucher_id` + w.sql() + `
		GROUP BY je.account_id
		ORDER BY je.account_id;`
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, translateError(err, "sum journal")
	}
	defer rows.Close()

	var out []domain.AccountTotal
	for rows.Next() {
		var t domain.AccountTotal
		if err := rows.Scan(&t.AccountID, &t.Debit, &t.Credit); err != nil {
			return nil, translateError(err, "scan account total")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate account totals")
	}
	return out, nil
}

// AppendBatch stores a balanced batch against existing vouchers.
func (r *PgxJournalRepository) AppendBatch(ctx context.Context, entries []domain.JournalEntry) error {
	if err := accounting.ValidateBatch(entries); err != nil {
		return err
	}
	err := r.RunSerializable(ctx, "append journal batch", func(tx pgx.Tx) error {
		return insertEntries(ctx, tx, entries)
	})
	if err != nil {
		return err
	}
	return nil
}
