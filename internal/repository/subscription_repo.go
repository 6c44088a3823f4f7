package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subtrack/internal/domain"
)

// SubscriptionRepository define el contrato de persistencia para suscripciones.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub domain.Subscription) (int64, error)
	CreateBatch(ctx context.Context, subs []domain.Subscription) error
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	GetByID(ctx context.Context, id int64) (domain.Subscription, error)
	Update(ctx context.Context, sub domain.Subscription) error
	DeleteByID(ctx context.Context, id int64) error
}

// PgSubscriptionRepository implementa SubscriptionRepository usando pgxpool.
type PgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubscriptionRepository(pool *pgxpool.Pool) *PgSubscriptionRepository {
	return &PgSubscriptionRepository{pool: pool}
}

func (r *PgSubscriptionRepository) Create(ctx context.Context, sub domain.Subscription) (int64, error) {
	const query = `
		INSERT INTO subscriptions (user_id, name, date_started, price_in_dollars, recurs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		sub.UserID,
		sub.Name,
		sub.DateStarted,
		sub.PriceInDollars,
		sub.Recurs,
		sub.CreatedAt,
	).Scan(&id)
	return id, err
}

// CreateBatch inserta varias suscripciones dentro de una sola transacción.
func (r *PgSubscriptionRepository) CreateBatch(ctx context.Context, subs []domain.Subscription) error {
	if len(subs) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO subscriptions (user_id, name, date_started, price_in_dollars, recurs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, sub := range subs {
		if _, err := tx.Exec(ctx, query,
			sub.UserID,
			sub.Name,
			sub.DateStarted,
			sub.PriceInDollars,
			sub.Recurs,
			sub.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PgSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	const query = `
		SELECT id, user_id, name, date_started, price_in_dollars, recurs, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY date_started, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]domain.Subscription, 0)
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.DateStarted,
			&s.PriceInDollars,
			&s.Recurs,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *PgSubscriptionRepository) GetByID(ctx context.Context, id int64) (domain.Subscription, error) {
	const query = `
		SELECT id, user_id, name, date_started, price_in_dollars, recurs, created_at
		FROM subscriptions
		WHERE id = $1
	`
	var s domain.Subscription
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.DateStarted,
		&s.PriceInDollars,
		&s.Recurs,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subscription{}, err
	}
	return s, err
}

func (r *PgSubscriptionRepository) Update(ctx context.Context, sub domain.Subscription) error {
	const query = `
		UPDATE subscriptions
		SET name = $2, date_started = $3, price_in_dollars = $4, recurs = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Name,
		sub.DateStarted,
		sub.PriceInDollars,
		sub.Recurs,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgSubscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM subscriptions WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
