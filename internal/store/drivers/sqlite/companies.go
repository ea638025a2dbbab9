package sqlite

import (
	"context"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
)

type companiesRepo struct {
	db dbtx
}

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM companies WHERE id = ?`, id)

	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	return mapConflict(err)
}

func (r *companiesRepo) RenameCompany(ctx context.Context, companyID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), companyID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRows(res)
}

func (r *companiesRepo) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *companiesRepo) DeleteCompany(ctx context.Context, companyID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, companyID)
	if err != nil {
		return err
	}
	return requireRows(res)
}
