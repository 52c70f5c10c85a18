package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type UsersRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool, obs: noopObserver{}}
}

func (r *UsersRepo) WithMetrics(obs DBObserver) *UsersRepo {
	r.obs = obs
	return r
}

const userColumns = `id, first_name, last_name, gender, hobbies, email, password_hash, role, department_id, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Gender,
		&u.Hobbies,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.DepartmentID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	err := r.obs.ObserveDB("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, first_name, last_name, gender, hobbies, email, password_hash, role, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			u.ID, u.FirstName, u.LastName, u.Gender, u.Hobbies, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
		)

		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}

		return err
	}

	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.obs.ObserveDB("users.get_by_email", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email))

		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.obs.ObserveDB("users.get_by_id", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) ListEmployees(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.obs.ObserveDB("users.list_employees", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC, id ASC`,
			user.RoleEmployee,
		)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// AssignDepartment sets the back-pointer unconditionally on every listed user
// (last writer wins across concurrent assignments).
func (r *UsersRepo) AssignDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	return r.obs.ObserveDB("users.assign_department", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE users SET department_id = $1, updated_at = NOW() WHERE id = ANY($2)`,
			departmentID, userIDs,
		)

		return err
	})
}

// ClearDepartment unsets the back-pointer only where it still equals
// departmentID, so a member concurrently claimed by another department is
// left untouched.
func (r *UsersRepo) ClearDepartment(ctx context.Context, userIDs []string, departmentID string) error {
	return r.obs.ObserveDB("users.clear_department", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE users SET department_id = NULL, updated_at = NOW() WHERE id = ANY($1) AND department_id = $2`,
			userIDs, departmentID,
		)

		return err
	})
}

// Summaries returns id/name triples in the order of userIDs. IDs without a
// matching user are silently dropped.
func (r *UsersRepo) Summaries(ctx context.Context, userIDs []string) ([]user.Summary, error) {
	if len(userIDs) == 0 {
		return []user.Summary{}, nil
	}

	byID := make(map[string]user.Summary, len(userIDs))

	err := r.obs.ObserveDB("users.summaries", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, first_name, last_name FROM users WHERE id = ANY($1)`, userIDs)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var s user.Summary

			if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName); err != nil {
				return err
			}

			byID[s.ID] = s
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	out := make([]user.Summary, 0, len(byID))

	for _, id := range userIDs {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}

	return out, nil
}
