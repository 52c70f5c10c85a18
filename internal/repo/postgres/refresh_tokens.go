package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/staffhub/internal/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionsRepo stores refresh-token sessions. Rotation runs inside a
// transaction with the old row locked, so two concurrent refreshes of the
// same token serialize instead of double-rotating.
type SessionsRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewSessionsRepo(pool *pgxpool.Pool) *SessionsRepo {
	return &SessionsRepo{pool: pool, obs: noopObserver{}}
}

func (r *SessionsRepo) WithMetrics(obs DBObserver) *SessionsRepo {
	r.obs = obs
	return r
}

func (r *SessionsRepo) Save(ctx context.Context, s auth.Session) error {
	return r.obs.ObserveDB("sessions.save", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.RevokedAt, s.ReplacedBy, s.CreatedAt,
		)

		return err
	})
}

func (r *SessionsRepo) Rotate(ctx context.Context, oldID string, check func(auth.Session) error, next auth.Session) error {
	return r.obs.ObserveDB("sessions.rotate", func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}

		defer tx.Rollback(ctx) //nolint:errcheck

		old, err := getSessionForUpdate(ctx, tx, oldID)
		if err != nil {
			return err
		}

		if err := check(old); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE refresh_tokens SET revoked_at = NOW(), replaced_by = $2 WHERE id = $1`,
			old.ID, next.ID,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			next.ID, next.UserID, next.TokenHash, next.ExpiresAt, next.RevokedAt, next.ReplacedBy, next.CreatedAt,
		)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

func (r *SessionsRepo) Revoke(ctx context.Context, id string) error {
	return r.obs.ObserveDB("sessions.revoke", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE refresh_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`,
			id,
		)

		return err
	})
}

func (r *SessionsRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.obs.ObserveDB("sessions.revoke_all", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`,
			userID,
		)

		return err
	})
}

func getSessionForUpdate(ctx context.Context, tx pgx.Tx, id string) (auth.Session, error) {
	var s auth.Session

	err := tx.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at
		 FROM refresh_tokens
		 WHERE id = $1
		 FOR UPDATE`,
		id,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.TokenHash,
		&s.ExpiresAt,
		&s.RevokedAt,
		&s.ReplacedBy,
		&s.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrSessionNotFound
		}

		return auth.Session{}, err
	}

	return s, nil
}
