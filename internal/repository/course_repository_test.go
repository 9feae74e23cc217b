package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

var courseRowColumns = []string{"id", "subject", "class_id", "building", "room", "schedule"}

func TestCourseRepositorySearchEmptyTermListsFirstPage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject, class_id, building, room, schedule FROM courses ORDER BY id ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow(1, "자료구조", "CSE2010-01", "공학관", "101", `[{"day":"월","time":["1A"]}]`))

	courses, err := repo.Search(context.Background(), "  ", 20)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CSE2010-01", courses[0].ClassID)
	assert.Equal(t, types.JSONText(`[{"day":"월","time":["1A"]}]`), courses[0].Schedule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySearchEscapesWildcards(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE subject ILIKE $1 OR class_id ILIKE $1")).
		WithArgs(`%100\%%`, 50).
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	courses, err := repo.Search(context.Background(), "100%", 50)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByClassIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE class_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	_, err := repo.FindByClassID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryBulkInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs("자료구조", "CSE2010-01", "공학관", "101", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.BulkInsert(context.Background(), []models.Course{{
		Subject:  "자료구조",
		ClassID:  "CSE2010-01",
		Building: "공학관",
		Room:     "101",
		Schedule: types.JSONText(`[]`),
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
