package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const departmentColumns = `department_id, name, head, budget, description, status, expense_account_code,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDepartmentRepository struct {
	BaseRepository
}

func newPgxDepartmentRepository(pool *pgxpool.Pool) *PgxDepartmentRepository {
	return &PgxDepartmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DepartmentRepositoryFacade = (*PgxDepartmentRepository)(nil)

func scanDepartment(row pgx.Row) (models.Department, error) {
	var m models.Department
	err := row.Scan(
		&m.DepartmentID,
		&m.Name,
		&m.Head,
		&m.Budget,
		&m.Description,
		&m.Status,
		&m.ExpenseAccountCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDepartmentRepository) findOne(ctx context.Context, where string, arg any) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE ` + where + `;`
	m, err := scanDepartment(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("department", arg.(string))
		}
		return nil, translateError(err, "find department")
	}
	d := mapping.ToDomainDepartment(m)
	return &d, nil
}

func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	return r.findOne(ctx, "department_id = $1", departmentID)
}

func (r *PgxDepartmentRepository) FindDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	return r.findOne(ctx, "LOWER(name) = LOWER(TRIM($1))", name)
}

func (r *PgxDepartmentRepository) ListDepartments(ctx context.Context, status *domain.DepartmentStatus) ([]domain.Department, error) {
	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}
	query := `
		SELECT ` + departmentColumns + `
		FROM departments
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY LOWER(name);
	`
	rows, err := r.Pool.Query(ctx, query, statusFilter)
	if err != nil {
		return nil, translateError(err, "list departments")
	}
	defer rows.Close()

	var out []domain.Department
	for rows.Next() {
		m, err := scanDepartment(rows)
		if err != nil {
			return nil, translateError(err, "scan department")
		}
		out = append(out, mapping.ToDomainDepartment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate departments")
	}
	return out, nil
}

func (r *PgxDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		INSERT INTO departments (` + departmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DepartmentID,
		m.Name,
		m.Head,
		m.Budget,
		m.Description,
		m.Status,
		m.ExpenseAccountCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return translateError(err, "save department "+m.Name)
}

func (r *PgxDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		UPDATE departments
		SET head = $1, budget = $2, description = $3, status = $4, expense_account_code = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE department_id = $8;
	`
	tag, err := r.Pool.Exec(ctx, query, m.Head, m.Budget, m.Description, m.Status, m.ExpenseAccountCode,
		m.LastUpdatedAt, m.LastUpdatedBy, m.DepartmentID)
	if err != nil {
		return translateError(err, "update department "+m.Name)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("department", m.DepartmentID)
	}
	return nil
}
