package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/breakroster/internal/schedule"
)

func (d *Database) InsertEmployee(ctx context.Context, e schedule.Employee) error {
	return insertEmployee(ctx, d.db, e)
}

func insertEmployee(ctx context.Context, ex execer, e schedule.Employee) error {
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO employees (id, name, department) VALUES (?, ?, ?)`,
		e.ID, e.Name, string(e.Department),
	); err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return touch(ctx, ex)
}

func (d *Database) UpdateEmployee(ctx context.Context, e schedule.Employee) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE employees SET name = ?, department = ? WHERE id = ?`,
		e.Name, string(e.Department), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if err := requireRow(res, "employee", e.ID); err != nil {
		return err
	}
	return touch(ctx, d.db)
}

func (d *Database) GetEmployee(ctx context.Context, id string) (schedule.Employee, error) {
	var e schedule.Employee
	var dept string
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, department FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &dept)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("employee %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("failed to read employee: %w", err)
	}
	e.Department = schedule.Department(dept)
	return e, nil
}

// ListEmployees returns every employee ordered by name.
func (d *Database) ListEmployees(ctx context.Context) ([]schedule.Employee, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, department FROM employees ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []schedule.Employee
	for rows.Next() {
		var e schedule.Employee
		var dept string
		if err := rows.Scan(&e.ID, &e.Name, &dept); err != nil {
			return nil, err
		}
		e.Department = schedule.Department(dept)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes the employee along with every entry they own or
// cover on break 1, and clears them from break 2 coverage elsewhere.
func (d *Database) DeleteEmployee(ctx context.Context, id string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		if err := requireRow(res, "employee", id); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx,
			`DELETE FROM break_entries WHERE employee_id = ? OR coverage1_id = ?`, id, id)
		if err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		removed, _ := res.RowsAffected()

		if _, err := tx.ExecContext(ctx,
			`UPDATE break_entries SET coverage2_id = '' WHERE coverage2_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear coverage: %w", err)
		}

		d.log.Info("employee deleted", zap.String("employee_id", id), zap.Int64("entries_removed", removed))
		return touch(ctx, tx)
	})
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
