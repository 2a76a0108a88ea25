// Package memory provides an in-process RepositoryManager. Every repository it
// vends shares one store regardless of the DBTX it is given, which makes it a
// drop-in for service and HTTP tests that still drive real transactions.
package memory

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Store holds users, tasks and the per-user task lists.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
	refs  map[string][]string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: map[string]models.User{},
		tasks: map[string]models.Task{},
		refs:  map[string][]string{},
		now:   time.Now,
	}
}

func (s *Store) RunMigrations(context.Context, *sql.DB) error { return nil }

func (s *Store) Users(dbx.DBTX) users.Repository { return (*userRepo)(s) }

func (s *Store) Tasks(dbx.DBTX) tasks.Repository { return (*taskRepo)(s) }

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}

	user.ID = uuid.NewString()
	if user.Status == "" {
		user.Status = models.DefaultUserStatus
	}
	user.CreatedAt = r.now()
	stored := *user
	stored.TaskRefs = nil
	r.users[user.ID] = stored
	return user, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.TaskRefs = slices.Clone(r.refs[id])
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			u.TaskRefs = slices.Clone(r.refs[u.ID])
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) TaskRefs(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := slices.Clone(r.refs[userID])
	if refs == nil {
		refs = []string{}
	}
	return refs, nil
}

func (r *userRepo) AppendTask(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return common.ErrorNotFound
	}
	r.refs[userID] = append(r.refs[userID], taskID)
	return nil
}

func (r *userRepo) RemoveTask(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refs[userID] = slices.DeleteFunc(r.refs[userID], func(id string) bool { return id == taskID })
	return nil
}

type taskRepo Store

func (r *taskRepo) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[task.CreatorID]; !ok {
		return nil, common.ErrorNotFound
	}
	task.ID = uuid.NewString()
	task.CreatedAt = r.now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = *task
	return task, nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *taskRepo) GetByIDs(_ context.Context, ids []string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tasks[id]; ok {
			result = append(result, &t)
		}
	}
	return result, nil
}

func (r *taskRepo) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[task.ID]
	if !ok || t.CreatorID != task.CreatorID {
		return nil, common.ErrorNotFound
	}
	t.Name = task.Name
	t.Description = task.Description
	t.Status = task.Status
	t.UpdatedAt = r.now()
	r.tasks[t.ID] = t
	return &t, nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.tasks, id)
	return nil
}
