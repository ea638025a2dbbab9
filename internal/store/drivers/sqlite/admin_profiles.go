package sqlite

import (
	"context"
	"database/sql"

	"github.com/vantagehq/vantage/internal/domain"
)

type adminProfilesRepo struct {
	db dbtx
}

const adminProfileColumns = `id, user_id, name, company_id, created_at, updated_at`

func scanAdminProfile(row interface{ Scan(dest ...any) error }) (domain.AdminProfile, error) {
	var (
		p         domain.AdminProfile
		companyID sql.NullString
	)

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &companyID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.AdminProfile{}, mapNotFound(err)
	}

	p.CompanyID = mapNullString(companyID)
	return p, nil
}

func (r *adminProfilesRepo) GetByUserID(ctx context.Context, userID string) (domain.AdminProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminProfileColumns+` FROM admin_profiles WHERE user_id = ?`, userID)

	p, err := scanAdminProfile(row)
	if err != nil {
		return domain.AdminProfile{}, err
	}

	roleIDs, err := r.roleIDs(ctx, p.ID)
	if err != nil {
		return domain.AdminProfile{}, err
	}
	p.RoleIDs = roleIDs
	return p, nil
}

func (r *adminProfilesRepo) GetByID(ctx context.Context, id string) (domain.AdminProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminProfileColumns+` FROM admin_profiles WHERE id = ?`, id)

	p, err := scanAdminProfile(row)
	if err != nil {
		return domain.AdminProfile{}, err
	}

	roleIDs, err := r.roleIDs(ctx, p.ID)
	if err != nil {
		return domain.AdminProfile{}, err
	}
	p.RoleIDs = roleIDs
	return p, nil
}

func (r *adminProfilesRepo) Create(ctx context.Context, p domain.AdminProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_profiles (id, user_id, name, company_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, mapStringNull(p.CompanyID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}

	for _, roleID := range p.RoleIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO admin_profile_roles (profile_id, role_id) VALUES (?, ?)`,
			p.ID, roleID); err != nil {
			return mapConflict(err)
		}
	}
	return nil
}

func (r *adminProfilesRepo) SetRoles(ctx context.Context, profileID string, roleIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_profile_roles WHERE profile_id = ?`, profileID); err != nil {
		return err
	}

	for _, roleID := range roleIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO admin_profile_roles (profile_id, role_id) VALUES (?, ?)`,
			profileID, roleID); err != nil {
			return mapConflict(err)
		}
	}
	return nil
}

func (r *adminProfilesRepo) List(ctx context.Context) ([]domain.AdminProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+adminProfileColumns+` FROM admin_profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.AdminProfile
	for rows.Next() {
		p, err := scanAdminProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		roleIDs, err := r.roleIDs(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].RoleIDs = roleIDs
	}
	return profiles, nil
}

func (r *adminProfilesRepo) Delete(ctx context.Context, profileID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_profiles WHERE id = ?`, profileID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *adminProfilesRepo) roleIDs(ctx context.Context, profileID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_id FROM admin_profile_roles WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
