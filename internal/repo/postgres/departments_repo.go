package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/staffhub/internal/domain/department"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepartmentsRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewDepartmentsRepo(pool *pgxpool.Pool) *DepartmentsRepo {
	return &DepartmentsRepo{pool: pool, obs: noopObserver{}}
}

func (r *DepartmentsRepo) WithMetrics(obs DBObserver) *DepartmentsRepo {
	r.obs = obs
	return r
}

const departmentColumns = `id, department_name, category_name, location, salary, employee_ids, created_by, created_at, updated_at`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department

	err := row.Scan(
		&d.ID,
		&d.DepartmentName,
		&d.CategoryName,
		&d.Location,
		&d.Salary,
		&d.EmployeeIDs,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	return d, err
}

func (r *DepartmentsRepo) Create(ctx context.Context, d department.Department) error {
	return r.obs.ObserveDB("departments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO departments (id, department_name, category_name, location, salary, employee_ids, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			d.ID, d.DepartmentName, d.CategoryName, d.Location, d.Salary, d.EmployeeIDs, d.CreatedBy, d.CreatedAt, d.UpdatedAt,
		)

		return err
	})
}

func (r *DepartmentsRepo) GetByID(ctx context.Context, id string) (department.Department, error) {
	var d department.Department

	err := r.obs.ObserveDB("departments.get_by_id", func() error {
		var err error
		d, err = scanDepartment(r.pool.QueryRow(ctx,
			`SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))

		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrNotFound
		}

		return department.Department{}, err
	}

	return d, nil
}

// ListByOwner pages through a manager's departments in insertion order. The
// total is counted separately so an out-of-range page still reports it.
func (r *DepartmentsRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]department.Department, int, error) {
	out := make([]department.Department, 0, limit)
	total := 0

	err := r.obs.ObserveDB("departments.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+departmentColumns+`
			 FROM departments
			 WHERE created_by = $1
			 ORDER BY created_at ASC, id ASC
			 LIMIT $2 OFFSET $3`,
			ownerID, limit, offset,
		)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			d, err := scanDepartment(rows)
			if err != nil {
				return err
			}

			out = append(out, d)
		}

		if err := rows.Err(); err != nil {
			return err
		}

		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM departments WHERE created_by = $1`, ownerID).Scan(&total)
	})

	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// UpdateAttributes writes the editable attributes only; employee_ids is owned
// by ReplaceMembers and created_by is immutable.
func (r *DepartmentsRepo) UpdateAttributes(ctx context.Context, d department.Department) error {
	return r.obs.ObserveDB("departments.update_attributes", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE departments
			 SET department_name = $2,
			     category_name = $3,
			     location = $4,
			     salary = $5,
			     updated_at = NOW()
			 WHERE id = $1`,
			d.ID, d.DepartmentName, d.CategoryName, d.Location, d.Salary,
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return department.ErrNotFound
		}

		return nil
	})
}

func (r *DepartmentsRepo) ReplaceMembers(ctx context.Context, departmentID string, memberIDs []string) error {
	return r.obs.ObserveDB("departments.replace_members", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE departments SET employee_ids = $2, updated_at = NOW() WHERE id = $1`,
			departmentID, memberIDs,
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return department.ErrNotFound
		}

		return nil
	})
}

func (r *DepartmentsRepo) Delete(ctx context.Context, id string) error {
	return r.obs.ObserveDB("departments.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return department.ErrNotFound
		}

		return nil
	})
}
