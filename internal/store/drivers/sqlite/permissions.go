package sqlite

import (
	"context"

	"github.com/vantagehq/vantage/internal/domain"
)

type permissionsRepo struct {
	db dbtx
}

func (r *permissionsRepo) GetPermissionByID(ctx context.Context, id string) (domain.Permission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, action, subject, created_at, updated_at FROM permissions WHERE id = ?`, id)

	var p domain.Permission
	if err := row.Scan(&p.ID, &p.Action, &p.Subject, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func (r *permissionsRepo) CreatePermission(ctx context.Context, p domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, action, subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Action, p.Subject, p.CreatedAt, p.UpdatedAt)
	return mapConflict(err)
}

func (r *permissionsRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, subject, created_at, updated_at FROM permissions ORDER BY subject ASC, action ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Action, &p.Subject, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *permissionsRepo) DeletePermission(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}
