package storage

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Database) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewWithDB(db, zap.NewNop())
}

func TestGetEmployee_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, department FROM employees`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "department"}))

	_, err := repo.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees_QueryError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT id, name, department FROM employees`).WillReturnError(boom)

	_, err := repo.ListEmployees(ctx)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployee_RollsBackOnFailure(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	boom := errors.New("constraint failed")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM employees`).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM break_entries`).WithArgs("a", "a").WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.DeleteEmployee(ctx, "a")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployee_MissingRollsBack(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM employees`).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.DeleteEmployee(ctx, "ghost"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntriesOnDate_MalformedDate(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	cols := []string{"id", "employee_id", "date", "shift_start", "shift_end",
		"break1_start", "break1_end", "break2_start", "break2_end",
		"coverage1_id", "coverage2_id",
		"outside_therapy_start", "outside_therapy_end", "outside_therapy_reason"}
	rows := sqlmock.NewRows(cols).
		AddRow("1", "a", "03/04/2024", "09:00", "17:00", "", "", "", "", "", "", "", "", "")
	mock.ExpectQuery(`SELECT (.+) FROM break_entries WHERE date = \?`).
		WithArgs("2024-03-04").
		WillReturnRows(rows)

	_, err := repo.EntriesOnDate(ctx, day)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOldestEntryDate_Empty(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT MIN\(date\) FROM break_entries`).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

	_, ok, err := repo.OldestEntryDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
