package models

import "time"

type Task struct {
	ID          string
	Name        string
	Description string
	Status      string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Creator is the public summary of a task's owner.
type Creator struct {
	ID   string
	Name string
}
