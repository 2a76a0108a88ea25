package rest

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type messageResponse struct {
	Message string              `json:"message"`
	Data    []common.FieldError `json:"data,omitempty"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

type taskJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTaskJSON(t *models.Task) taskJSON {
	return taskJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		Creator:     t.CreatorID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type creatorJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskResponse struct {
	Message string   `json:"message"`
	Task    taskJSON `json:"task"`
}

type createTaskResponse struct {
	Message string      `json:"message"`
	Task    taskJSON    `json:"task"`
	Creator creatorJSON `json:"creator"`
}

type listTasksResponse struct {
	Message    string     `json:"message"`
	Tasks      []taskJSON `json:"tasks"`
	TotalItems int        `json:"totalItems"`
}
