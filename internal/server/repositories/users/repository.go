package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// TaskRefs returns the user's task ids in insertion order.
	TaskRefs(ctx context.Context, userID string) ([]string, error)
	AppendTask(ctx context.Context, userID, taskID string) error
	RemoveTask(ctx context.Context, userID, taskID string) error
}
