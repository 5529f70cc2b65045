package models

import "time"

type User struct {
	ID           string
	FullName     string
	UserName     string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

// PublicUser is the redacted projection of a User returned to clients.
// It never carries the password hash.
type PublicUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	UserName string `json:"username"`
	Role     Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		FullName: u.FullName,
		UserName: u.UserName,
		Role:     u.Role,
	}
}
