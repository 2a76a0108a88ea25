package models

import "time"

// DefaultUserStatus is assigned to every new account.
const DefaultUserStatus = "I am new!"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Status       string
	// TaskRefs lists the ids of tasks created by the user, in creation order.
	TaskRefs  []string
	CreatedAt time.Time
}
