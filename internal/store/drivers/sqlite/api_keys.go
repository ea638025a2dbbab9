package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
)

type apiKeysRepo struct {
	db dbtx
}

const apiKeyColumns = `id, company_id, name, token_hash, permissions, last_used_at, revoked_at, created_at, updated_at`

func scanAPIKey(row interface{ Scan(dest ...any) error }) (domain.APIKey, error) {
	var (
		k           domain.APIKey
		permissions string
		lastUsed    sql.NullTime
		revoked     sql.NullTime
	)

	err := row.Scan(&k.ID, &k.CompanyID, &k.Name, &k.TokenHash, &permissions, &lastUsed, &revoked, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return domain.APIKey{}, mapNotFound(err)
	}

	k.Permissions = splitList(permissions)
	k.LastUsedAt = mapNullTimePtr(lastUsed)
	k.RevokedAt = mapNullTimePtr(revoked)
	return k, nil
}

func (r *apiKeysRepo) GetByTokenHash(ctx context.Context, hash string) (domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE token_hash = ? AND revoked_at IS NULL`, hash)
	return scanAPIKey(row)
}

func (r *apiKeysRepo) GetByID(ctx context.Context, id string) (domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?`, id)
	return scanAPIKey(row)
}

func (r *apiKeysRepo) Create(ctx context.Context, k domain.APIKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, company_id, name, token_hash, permissions, last_used_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.CompanyID, k.Name, k.TokenHash, joinList(k.Permissions),
		mapOptionalTime(k.LastUsedAt), mapOptionalTime(k.RevokedAt), k.CreatedAt, k.UpdatedAt)
	return mapConflict(err)
}

func (r *apiKeysRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE company_id = ? AND revoked_at IS NULL ORDER BY created_at ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *apiKeysRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ?, updated_at = ? WHERE id = ? AND revoked_at IS NULL`,
		at, at, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *apiKeysRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}
