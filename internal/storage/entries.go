package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/breakroster/internal/schedule"
)

const entryColumns = `id, employee_id, date, shift_start, shift_end,
	break1_start, break1_end, break2_start, break2_end,
	coverage1_id, coverage2_id,
	outside_therapy_start, outside_therapy_end, outside_therapy_reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (schedule.BreakEntry, error) {
	var e schedule.BreakEntry
	var date string
	err := s.Scan(&e.ID, &e.EmployeeID, &date, &e.ShiftStart, &e.ShiftEnd,
		&e.Break1Start, &e.Break1End, &e.Break2Start, &e.Break2End,
		&e.Coverage1, &e.Coverage2,
		&e.OutsideTherapyStart, &e.OutsideTherapyEnd, &e.OutsideTherapyReason)
	if err != nil {
		return e, err
	}
	e.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return e, fmt.Errorf("entry %s has malformed date %q: %w", e.ID, date, err)
	}
	return e.Normalize(), nil
}

func entryArgs(e schedule.BreakEntry) []any {
	e = e.Normalize()
	return []any{e.ID, e.EmployeeID, e.Date.Format(dateLayout), e.ShiftStart, e.ShiftEnd,
		e.Break1Start, e.Break1End, e.Break2Start, e.Break2End,
		e.Coverage1, e.Coverage2,
		e.OutsideTherapyStart, e.OutsideTherapyEnd, e.OutsideTherapyReason}
}

func (d *Database) InsertEntry(ctx context.Context, e schedule.BreakEntry) error {
	return insertEntry(ctx, d.db, e)
}

func insertEntry(ctx context.Context, ex execer, e schedule.BreakEntry) error {
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO break_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryArgs(e)...,
	); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return touch(ctx, ex)
}

func (d *Database) UpdateEntry(ctx context.Context, e schedule.BreakEntry) error {
	args := entryArgs(e)
	res, err := d.db.ExecContext(ctx,
		`UPDATE break_entries SET employee_id = ?, date = ?, shift_start = ?, shift_end = ?,
			break1_start = ?, break1_end = ?, break2_start = ?, break2_end = ?,
			coverage1_id = ?, coverage2_id = ?,
			outside_therapy_start = ?, outside_therapy_end = ?, outside_therapy_reason = ?
		 WHERE id = ?`,
		append(append([]any{}, args[1:]...), args[0])...,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if err := requireRow(res, "entry", e.ID); err != nil {
		return err
	}
	return touch(ctx, d.db)
}

func (d *Database) GetEntry(ctx context.Context, id string) (schedule.BreakEntry, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM break_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("failed to read entry: %w", err)
	}
	return e, nil
}

func (d *Database) DeleteEntry(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM break_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if err := requireRow(res, "entry", id); err != nil {
		return err
	}
	return touch(ctx, d.db)
}

func (d *Database) queryEntries(ctx context.Context, where string, args ...any) ([]schedule.BreakEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM break_entries`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date ASC, shift_start ASC, id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []schedule.BreakEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *Database) ListEntries(ctx context.Context) ([]schedule.BreakEntry, error) {
	return d.queryEntries(ctx, "")
}

// EntriesOnDate returns the entries on day's calendar date.
func (d *Database) EntriesOnDate(ctx context.Context, day time.Time) ([]schedule.BreakEntry, error) {
	return d.queryEntries(ctx, `date = ?`, day.Format(dateLayout))
}

// EntriesInRange returns entries from start through end, both inclusive.
func (d *Database) EntriesInRange(ctx context.Context, start, end time.Time) ([]schedule.BreakEntry, error) {
	return d.queryEntries(ctx, `date >= ? AND date <= ?`, start.Format(dateLayout), end.Format(dateLayout))
}

// EntryFor returns the employee's entry on day, or ErrNotFound.
func (d *Database) EntryFor(ctx context.Context, employeeID string, day time.Time) (schedule.BreakEntry, error) {
	entries, err := d.queryEntries(ctx, `employee_id = ? AND date = ?`, employeeID, day.Format(dateLayout))
	if err != nil {
		return schedule.BreakEntry{}, err
	}
	if len(entries) == 0 {
		return schedule.BreakEntry{}, fmt.Errorf("entry for %s on %s: %w", employeeID, day.Format(dateLayout), ErrNotFound)
	}
	return entries[0], nil
}

// DeleteEntriesInRange removes entries from start through end and reports how
// many were removed.
func (d *Database) DeleteEntriesInRange(ctx context.Context, start, end time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM break_entries WHERE date >= ? AND date <= ?`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := touch(ctx, d.db); err != nil {
			return n, err
		}
	}
	return n, nil
}

// OldestEntryDate returns the earliest entry date. ok is false when there are
// no entries.
func (d *Database) OldestEntryDate(ctx context.Context) (t time.Time, ok bool, err error) {
	var date sql.NullString
	if err := d.db.QueryRowContext(ctx, `SELECT MIN(date) FROM break_entries`).Scan(&date); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read oldest entry: %w", err)
	}
	if !date.Valid {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(dateLayout, date.String, time.Local)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// ReplaceAll swaps the whole roster for employees and entries in a single
// transaction.
func (d *Database) ReplaceAll(ctx context.Context, employees []schedule.Employee, entries []schedule.BreakEntry) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{`DELETE FROM break_entries`, `DELETE FROM employees`} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
		}
		for _, e := range employees {
			if err := insertEmployee(ctx, tx, e); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		d.log.Info("data replaced",
			zap.Int("employees", len(employees)),
			zap.Int("entries", len(entries)))
		return touch(ctx, tx)
	})
}
