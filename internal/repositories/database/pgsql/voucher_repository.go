package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/mapping"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const voucherSelect = `
	SELECT v.voucher_id, v.voucher_number, v.fiscal_year, v.sequence, v.voucher_date, v.department_id,
	       v.description, v.amount, v.voucher_type, v.status, v.created_at, v.created_by,
	       v.approved_at, v.approved_by, d.name
	FROM vouchers v
	JOIN departments d ON d.department_id = v.department_id`

type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool, onRetry func()) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool, OnRetry: onRetry}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.VoucherNumber,
		&m.FiscalYear,
		&m.Sequence,
		&m.VoucherDate,
		&m.DepartmentID,
		&m.Description,
		&m.Amount,
		&m.VoucherType,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.ApprovedAt,
		&m.ApprovedBy,
		&m.DepartmentName,
	)
	return m, err
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	m, err := scanVoucher(r.Pool.QueryRow(ctx, voucherSelect+` WHERE v.voucher_id = $1;`, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("voucher", voucherID)
		}
		return nil, translateError(err, "find voucher "+voucherID)
	}
	v := mapping.ToDomainVoucher(m)
	return &v, nil
}

// ListVouchers pages through vouchers newest first using a keyset cursor on
// (voucher_date, fiscal_year, sequence, voucher_number).
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error) {
	w := voucherWhere(params.Filter)
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeVoucherCursor(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %v", err)
		}
		w.args = append(w.args, cursor.Date, cursor.FiscalYear, cursor.Sequence, cursor.Number)
		n := len(w.args)
		w.addRaw(fmt.Sprintf(`(v.voucher_date, v.fiscal_year, v.sequence, v.voucher_number COLLATE "C") < ($%d, $%d, $%d, $%d)`, n-3, n-2, n-1, n))
	}

	query := voucherSelect + w.sql() + ` ORDER BY v.voucher_date DESC, v.fiscal_year DESC, v.sequence DESC, v.voucher_number COLLATE "C" DESC`
	args := w.args
	if params.Limit > 0 {
		// One extra row tells us whether another page exists.
		args = append(args, params.Limit+1)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "list vouchers")
	}
	defer rows.Close()

	var ms []models.Voucher
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, translateError(err, "scan voucher")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err, "iterate vouchers")
	}

	vouchers := mapping.ToDomainVoucherSlice(ms)
	if params.Limit <= 0 || len(vouchers) <= params.Limit {
		return vouchers, nil, nil
	}
	vouchers = vouchers[:params.Limit]
	last := vouchers[len(vouchers)-1]
	next := pagination.VoucherCursor{Date: last.Date, FiscalYear: last.FiscalYear, Sequence: last.Sequence, Number: last.VoucherNumber}.Encode()
	return vouchers, &next, nil
}

func (r *PgxVoucherRepository) CountVouchers(ctx context.Context, filter domain.Filter) (int, error) {
	w := voucherWhere(filter)
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers v`+w.sql()+`;`, w.args...).Scan(&n); err != nil {
		return 0, translateError(err, "count vouchers")
	}
	return n, nil
}

// nextSequence allocates the next number of a series inside tx. A rollback of tx
// releases the number, so the series never has gaps.
func nextSequence(ctx context.Context, tx pgx.Tx, series domain.VoucherSeries) (int, error) {
	query := `
		INSERT INTO voucher_sequences (series, last_number) VALUES ($1, 1)
		ON CONFLICT (series) DO UPDATE SET last_number = voucher_sequences.last_number + 1
		RETURNING last_number;
	`
	var next int
	if err := tx.QueryRow(ctx, query, series.Key()).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// CreateVoucher numbers, inserts and posts a voucher in one serializable transaction.
func (r *PgxVoucherRepository) CreateVoucher(ctx context.Context, series domain.VoucherSeries, voucher domain.Voucher, entries []domain.JournalEntry) (*domain.Voucher, error) {
	if err := accounting.ValidateBatch(entries); err != nil {
		return nil, err
	}

	var created domain.Voucher
	err := r.RunSerializable(ctx, "create voucher", func(tx pgx.Tx) error {
		seq, err := nextSequence(ctx, tx, series)
		if err != nil {
			return err
		}
		v := voucher
		v.FiscalYear = series.FiscalYear
		v.Sequence = seq
		v.VoucherNumber = series.Format(seq)

		m := mapping.ToModelVoucher(v)
		insert := `
			INSERT INTO vouchers (voucher_id, voucher_number, fiscal_year, sequence, voucher_date, department_id,
				description, amount, voucher_type, status, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		if _, err := tx.Exec(ctx, insert,
			m.VoucherID,
			m.VoucherNumber,
			m.FiscalYear,
			m.Sequence,
			m.VoucherDate,
			m.DepartmentID,
			m.Description,
			m.Amount,
			m.VoucherType,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
		); err != nil {
			return err
		}
		if err := insertEntries(ctx, tx, entries); err != nil {
			return err
		}

		row, err := scanVoucher(tx.QueryRow(ctx, voucherSelect+` WHERE v.voucher_id = $1;`, v.VoucherID))
		if err != nil {
			return err
		}
		created = mapping.ToDomainVoucher(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// TransitionVoucher locks the voucher row, applies a legal status change and, when
// requested, appends the reversing batch in the same transaction.
func (r *PgxVoucherRepository) TransitionVoucher(ctx context.Context, t portsrepo.VoucherTransition) (*domain.Voucher, error) {
	var updated domain.Voucher
	err := r.RunSerializable(ctx, "transition voucher", func(tx pgx.Tx) error {
		row, err := scanVoucher(tx.QueryRow(ctx, voucherSelect+` WHERE v.voucher_id = $1 FOR UPDATE OF v;`, t.VoucherID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("voucher", t.VoucherID)
			}
			return err
		}
		current := mapping.ToDomainVoucher(row)
		if !current.Status.CanTransitionTo(t.To) {
			return apperrors.NewInvalidStateError("voucher %s is %s and cannot become %s", current.VoucherNumber, current.Status, t.To)
		}

		if t.Reverse != nil {
			original, err := entriesForVoucher(ctx, tx, t.VoucherID)
			if err != nil {
				return err
			}
			plain := make([]domain.JournalEntry, len(original))
			for i, e := range original {
				plain[i] = e.JournalEntry
			}
			reversal, err := t.Reverse(plain)
			if err != nil {
				return err
			}
			if err := accounting.ValidateBatch(reversal); err != nil {
				return err
			}
			if err := insertEntries(ctx, tx, reversal); err != nil {
				return err
			}
		}

		update := `UPDATE vouchers SET status = $1, approved_by = $2, approved_at = $3 WHERE voucher_id = $4;`
		if _, err := tx.Exec(ctx, update, string(t.To), t.By, t.At, t.VoucherID); err != nil {
			return err
		}

		by, at := t.By, t.At
		current.Status = t.To
		current.ApprovedBy = &by
		current.ApprovedAt = &at
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
