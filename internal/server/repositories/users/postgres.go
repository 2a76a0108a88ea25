package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user and fills in the store-assigned id, status and
// creation time. A duplicate email yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	if user.Status == "" {
		user.Status = models.DefaultUserStatus
	}

	query :=
		`INSERT INTO users (email, password_hash, name, status)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Status).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, name, status, created_at FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, name, status, created_at FROM users
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Status, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) TaskRefs(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT task_id FROM user_tasks
		 WHERE user_id = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		refs = append(refs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return refs, nil
}

// AppendTask adds taskID to the end of the user's task list in a single
// insert, so concurrent appends for one user never overwrite each other.
func (r *PostgresRepository) AppendTask(ctx context.Context, userID, taskID string) error {
	query :=
		`INSERT INTO user_tasks (user_id, task_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, taskID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RemoveTask deletes taskID from the user's task list. Removing an absent
// reference is not an error.
func (r *PostgresRepository) RemoveTask(ctx context.Context, userID, taskID string) error {
	query :=
		`DELETE FROM user_tasks
		 WHERE user_id = $1 AND task_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, taskID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
