package models

import "time"

// User is the minimal account profile the vault engine needs to know about.
// Authentication, sessions and OAuth live outside this module; the engine
// only reads the profile when assembling a backup artifact.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Email is the unique account email.
	Email string `json:"email"`

	// FirstName is the display first name. Non-sensitive.
	FirstName string `json:"firstName"`

	// LastName is the display last name. Non-sensitive.
	LastName string `json:"lastName"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
