package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "lrn", "name", "status", "gender", "address", "barangay_id", "program", "enrollment_date", "modality", "percentile", "remark", "created_at", "updated_at"}).
		AddRow("s1", "123456789012", "Maria Cruz", "active", "female", "Purok 3", "b1", "A&E Elementary", "2026-01-15", "Modular", nil, nil, time.Now(), time.Now())
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE 1=1 AND \\(LOWER\\(name\\) LIKE \\$1 OR lrn LIKE \\$1\\) AND barangay_id = \\$2 ORDER BY name ASC LIMIT 20 OFFSET 0").
		WithArgs("%cruz%", "b1").
		WillReturnRows(studentRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students WHERE 1=1").
		WithArgs("%cruz%", "b1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Cruz", BarangayID: "b1"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	// An unrecognised sort falls back to the name column.
	mock.ExpectQuery("FROM students WHERE 1=1 ORDER BY name ASC").
		WillReturnRows(studentRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.StudentFilter{SortBy: "lrn; DROP TABLE students"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE id = \\$1").
		WithArgs("s1").
		WillReturnRows(studentRows())

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Cruz", student.Name)
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryExistsByLRN(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM students WHERE lrn = \\$1 AND id <> \\$2 LIMIT 1").
		WithArgs("123456789012", "s1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByLRN(context.Background(), "123456789012", "s1")
	require.NoError(t, err)
	assert.False(t, exists)

	mock.ExpectQuery("SELECT 1 FROM students WHERE lrn = \\$1 LIMIT 1").
		WithArgs("123456789012").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err = repo.ExistsByLRN(context.Background(), "123456789012", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{LRN: "123456789012", Name: "Maria Cruz", Status: models.StudentStatusActive, Gender: "female", BarangayID: "b1", Program: "A&E Elementary", EnrollmentDate: "2026-01-15", Modality: "Modular"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
