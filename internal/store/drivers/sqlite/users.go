package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, company_id, email, name, password_hash, verified,
	refresh_token_hash, verify_token_hash, reset_token_hash, reset_token_expires_at,
	created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var (
		u            domain.User
		companyID    sql.NullString
		refreshHash  sql.NullString
		verifyHash   sql.NullString
		resetHash    sql.NullString
		resetExpires sql.NullTime
	)

	err := row.Scan(
		&u.ID, &companyID, &u.Email, &u.Name, &u.PasswordHash, &u.Verified,
		&refreshHash, &verifyHash, &resetHash, &resetExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.CompanyID = mapNullString(companyID)
	u.RefreshTokenHash = mapNullString(refreshHash)
	u.VerifyTokenHash = mapNullString(verifyHash)
	u.ResetTokenHash = mapNullString(resetHash)
	u.ResetTokenExpiresAt = mapNullTimePtr(resetExpires)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByVerifyTokenHash(ctx context.Context, hash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE verify_token_hash = ?`, hash)
	return scanUser(row)
}

func (r *usersRepo) GetUserByResetTokenHash(ctx context.Context, hash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash = ?`, hash)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, company_id, email, name, password_hash, verified,
			refresh_token_hash, verify_token_hash, reset_token_hash, reset_token_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, mapStringNull(u.CompanyID), u.Email, u.Name, u.PasswordHash, u.Verified,
		mapStringNull(u.RefreshTokenHash), mapStringNull(u.VerifyTokenHash),
		mapStringNull(u.ResetTokenHash), mapOptionalTime(u.ResetTokenExpiresAt),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	return r.exec(ctx,
		`UPDATE users SET refresh_token_hash = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(hash), time.Now().UTC(), userID)
}

func (r *usersRepo) SetVerifyTokenHash(ctx context.Context, userID, hash string) error {
	return r.exec(ctx,
		`UPDATE users SET verify_token_hash = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(hash), time.Now().UTC(), userID)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET verified = 1, verify_token_hash = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = ?, reset_token_expires_at = ?, updated_at = ? WHERE id = ?`,
		hash, expiresAt, time.Now().UTC(), userID)
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE company_id = ? ORDER BY created_at ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// exec runs an UPDATE or DELETE that targets a single user and converts a
// zero-row result into store.ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
