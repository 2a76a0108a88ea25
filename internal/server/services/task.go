package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/pagination"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskInput carries the client-editable fields of a task.
type TaskInput struct {
	Name        string
	Description string
	Status      string
}

func (in TaskInput) validate() error {
	var fields []common.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, common.FieldError{Field: "name", Message: "must not be empty", Value: in.Name})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, common.FieldError{Field: "description", Message: "must not be empty", Value: in.Description})
	}
	if strings.TrimSpace(in.Status) == "" {
		fields = append(fields, common.FieldError{Field: "status", Message: "must not be empty", Value: in.Status})
	}
	if len(fields) > 0 {
		return &common.ValidationError{Fields: fields}
	}
	return nil
}

// TaskPage is one page of a user's tasks.
type TaskPage struct {
	Tasks []*models.Task
	// TotalItems counts all of the user's tasks, not only this page.
	TotalItems int
}

// CreatedTask is a new task together with its creator summary.
type CreatedTask struct {
	Task    *models.Task
	Creator models.Creator
}

// TaskService manages tasks on behalf of an authenticated caller. Only a
// task's creator may change or delete it.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pageSize    int
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, pageSize int) *TaskService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &TaskService{
		db:          db,
		repomanager: m,
		pageSize:    pageSize,
	}
}

// List returns the requested page of the caller's tasks in creation order.
func (s *TaskService) List(ctx context.Context, callerID string, pageNumber int) (*TaskPage, error) {
	if _, err := s.loadUser(ctx, callerID); err != nil {
		return nil, err
	}

	refs, err := s.repomanager.Users(s.db).TaskRefs(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error loading task list: %w", err)
	}

	window := pagination.Window(refs, pagination.New(pageNumber, s.pageSize))

	tasks, err := s.repomanager.Tasks(s.db).GetByIDs(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("error loading tasks: %w", err)
	}

	return &TaskPage{Tasks: tasks, TotalItems: len(refs)}, nil
}

// Create stores a task owned by the caller and appends it to the caller's
// task list in the same transaction.
func (s *TaskService) Create(ctx context.Context, callerID string, in TaskInput) (*CreatedTask, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var created *models.Task
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := s.repomanager.Tasks(tx).Create(ctx, &models.Task{
			Name:        in.Name,
			Description: in.Description,
			Status:      in.Status,
			CreatorID:   user.ID,
		})
		if err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).AppendTask(ctx, user.ID, task.ID); err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return &CreatedTask{
		Task:    created,
		Creator: models.Creator{ID: user.ID, Name: user.Name},
	}, nil
}

// Get returns any task by id; reading is not restricted to the creator.
func (s *TaskService) Get(ctx context.Context, taskID string) (*models.Task, error) {
	if !isTaskID(taskID) {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	return task, nil
}

// Update overwrites the editable fields of a task owned by the caller.
func (s *TaskService) Update(ctx context.Context, callerID, taskID string, in TaskInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	task, err := s.owned(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Name = in.Name
	task.Description = in.Description
	task.Status = in.Status

	updated, err := s.repomanager.Tasks(s.db).Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return updated, nil
}

// Delete removes a task owned by the caller together with its list entry.
func (s *TaskService) Delete(ctx context.Context, callerID, taskID string) error {
	task, err := s.owned(ctx, callerID, taskID)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).RemoveTask(ctx, task.CreatorID, task.ID); err != nil {
			return err
		}
		return s.repomanager.Tasks(tx).Delete(ctx, task.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

func (s *TaskService) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// owned loads the task and checks that callerID created it.
func (s *TaskService) owned(ctx context.Context, callerID, taskID string) (*models.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatorID != callerID {
		return nil, common.ErrorForbidden
	}
	return task, nil
}

func isTaskID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
