package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/memory"
	tasksrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeUsersRepo delegates to an in-memory repository unless an error is set.
type fakeUsersRepo struct {
	usersrepo.Repository

	getByEmailErr error
	getByIDErr    error
	createErr     error
	refsErr       error
	appendErr     error
	removeErr     error
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.Repository.GetByEmail(ctx, email)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.Repository.GetByID(ctx, id)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *fakeUsersRepo) TaskRefs(ctx context.Context, userID string) ([]string, error) {
	if f.refsErr != nil {
		return nil, f.refsErr
	}
	return f.Repository.TaskRefs(ctx, userID)
}

func (f *fakeUsersRepo) AppendTask(ctx context.Context, userID, taskID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.Repository.AppendTask(ctx, userID, taskID)
}

func (f *fakeUsersRepo) RemoveTask(ctx context.Context, userID, taskID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Repository.RemoveTask(ctx, userID, taskID)
}

// fakeTasksRepo delegates to an in-memory repository unless an error is set.
type fakeTasksRepo struct {
	tasksrepo.Repository

	createErr   error
	getByIDsErr error
	updateErr   error
	deleteErr   error
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, t)
}

func (f *fakeTasksRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Task, error) {
	if f.getByIDsErr != nil {
		return nil, f.getByIDsErr
	}
	return f.Repository.GetByIDs(ctx, ids)
}

func (f *fakeTasksRepo) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Repository.Update(ctx, t)
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.Delete(ctx, id)
}

// fakeRepoManager serves the fakes on top of one shared memory store.
type fakeRepoManager struct {
	store *memory.Store
	u     *fakeUsersRepo
	t     *fakeTasksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	s := memory.NewStore()
	return &fakeRepoManager{
		store: s,
		u:     &fakeUsersRepo{Repository: s.Users(nil)},
		t:     &fakeTasksRepo{Repository: s.Tasks(nil)},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasksrepo.Repository          { return m.t }

func mustCreateUser(t *testing.T, rm *fakeRepoManager, email, name string) *models.User {
	t.Helper()
	u, err := rm.store.Users(nil).Create(context.Background(), &models.User{Email: email, Name: name, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
