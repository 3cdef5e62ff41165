package users

import "time"

type Repo interface {
	// Create stores a new user, assigning an ID when empty. It fails with
	// ErrEmailInUse when the address is taken.
	Create(user *User) error
	Delete(id string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	SetLoggedIn(id string, at time.Time) error
}
