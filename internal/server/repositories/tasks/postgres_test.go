package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertTaskQ = `(?s)^INSERT\s+INTO\s+tasks\s*\(name,\s*description,\s*status,\s*creator_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	byIDQ       = `(?s)^SELECT\s+id,\s*name,\s*description,\s*status,\s*creator_id,\s*created_at,\s*updated_at\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`
	byIDsQ      = `(?s)^SELECT\s+id,.*FROM\s+tasks\s+WHERE\s+id\s+IN\s+\(\$1,\s*\$2,\s*\$3\)\s*$`
	updateQ     = `(?s)^UPDATE\s+tasks\s+SET\s+name\s*=\s*\$1,\s*description\s*=\s*\$2,\s*status\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$4\s+AND\s+creator_id\s*=\s*\$5\s+RETURNING\s+id,.*$`
	deleteQ     = `^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1$`
)

var taskCols = []string{"id", "name", "description", "status", "creator_id", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertTaskQ).
		WithArgs("Task 1", "Do it now", "todo", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t-1", now, now))

	got, err := repo.Create(context.Background(), &models.Task{Name: "Task 1", Description: "Do it now", Status: "todo", CreatorID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
	assert.Equal(t, "u-1", got.CreatorID)
	assert.True(t, got.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertTaskQ).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Task{Name: "n", Description: "d", Status: "s", CreatorID: "u"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*fk violation`), err.Error())
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(byIDQ).WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("t-1", "Task 1", "Do it now", "todo", "u-1", now, now))
	mock.ExpectQuery(byIDQ).WithArgs("t-2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byIDQ).WithArgs("t-3").WillReturnError(errors.New("down"))

	got, err := repo.GetByID(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, &models.Task{ID: "t-1", Name: "Task 1", Description: "Do it now", Status: "todo", CreatorID: "u-1", CreatedAt: now, UpdatedAt: now}, got)

	_, err = repo.GetByID(context.Background(), "t-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(context.Background(), "t-3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByIDs_PreservesRequestedOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(byIDsQ).WithArgs("t-3", "t-1", "t-gone").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "Task 1", "d1", "s1", "u-1", now, now).
			AddRow("t-3", "Task 3", "d3", "s3", "u-1", now, now))

	got, err := repo.GetByIDs(context.Background(), []string{"t-3", "t-1", "t-gone"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-3", got[0].ID)
	assert.Equal(t, "t-1", got[1].ID)
}

func TestGetByIDs_EmptyDoesNotQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDsQ).WillReturnError(errors.New("down"))
	mock.ExpectQuery(byIDsQ).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-1"))

	_, err := repo.GetByIDs(context.Background(), []string{"a", "b", "c"})
	assert.Error(t, err)

	_, err = repo.GetByIDs(context.Background(), []string{"a", "b", "c"})
	assert.Error(t, err, "scan into too few columns must fail")
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(updateQ).
		WithArgs("New name", "New description", "done", "t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("t-1", "New name", "New description", "done", "u-1", now, now))
	mock.ExpectQuery(updateQ).
		WithArgs("New name", "New description", "done", "t-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), &models.Task{ID: "t-1", Name: "New name", Description: "New description", Status: "done", CreatorID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "done", got.Status)
	assert.Equal(t, "u-1", got.CreatorID)

	_, err = repo.Update(context.Background(), &models.Task{ID: "t-1", Name: "New name", Description: "New description", Status: "done", CreatorID: "u-2"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
		anyErr  bool
	}{
		{
			name: "deleted",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "exec error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs("t-1").WillReturnError(errors.New("down"))
			},
			anyErr: true,
		},
		{
			name: "rows affected error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))
			},
			anyErr: true,
		},
		{
			name: "unexpected rows",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 2))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			err := repo.Delete(context.Background(), "t-1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
