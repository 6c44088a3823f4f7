package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subtrack/internal/domain"
)

// GmailCredentialsRepository define el contrato de persistencia para
// credenciales OAuth de Gmail.
type GmailCredentialsRepository interface {
	Upsert(ctx context.Context, cred domain.GmailCredentials) error
	GetByUserID(ctx context.Context, userID string) (domain.GmailCredentials, error)
}

// PgGmailCredentialsRepository implementa GmailCredentialsRepository usando pgxpool.
type PgGmailCredentialsRepository struct {
	pool *pgxpool.Pool
}

func NewPgGmailCredentialsRepository(pool *pgxpool.Pool) *PgGmailCredentialsRepository {
	return &PgGmailCredentialsRepository{pool: pool}
}

func (r *PgGmailCredentialsRepository) Upsert(ctx context.Context, cred domain.GmailCredentials) error {
	const query = `
		INSERT INTO gmail_credentials (id, user_id, access_token, refresh_token, token_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    token_expiry = EXCLUDED.token_expiry
	`
	_, err := r.pool.Exec(ctx, query,
		cred.ID,
		cred.UserID,
		cred.AccessToken,
		cred.RefreshToken,
		cred.TokenExpiry,
		cred.CreatedAt,
	)
	return err
}

func (r *PgGmailCredentialsRepository) GetByUserID(ctx context.Context, userID string) (domain.GmailCredentials, error) {
	const query = `
		SELECT id, user_id, access_token, refresh_token, token_expiry, created_at
		FROM gmail_credentials
		WHERE user_id = $1
	`
	var cred domain.GmailCredentials
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cred.ID,
		&cred.UserID,
		&cred.AccessToken,
		&cred.RefreshToken,
		&cred.TokenExpiry,
		&cred.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GmailCredentials{}, err
	}
	return cred, err
}
