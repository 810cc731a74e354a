package models

import "time"

// User is a stored identity. PasswordHash never leaves the server.
type User struct {
	ID           string
	UserName     string
	FirstName    string
	LastName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Profile is the public projection of a User returned to authenticated callers.
type Profile struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips the password secret.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}
