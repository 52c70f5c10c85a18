package db

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/staffhub/internal/config"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureManagerUser seeds a bootstrap manager account when configured, so a
// fresh deployment has someone who can create departments. No-op if the email
// already exists or seeding is not configured.
func EnsureManagerUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedManagerEmail == "" || cfg.SeedManagerPassword == "" {
		return nil
	}

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.SeedManagerEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedManagerPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, gender, hobbies, email, password_hash, role, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		uuid.NewString(),
		cfg.SeedManagerFirstName,
		cfg.SeedManagerLastName,
		"unspecified",
		[]string{},
		cfg.SeedManagerEmail,
		hash,
		user.RoleManager,
		now,
		now,
	)

	return err
}
