package model

import "time"

const AuthorityUser = "ROLE_USER"
const AuthorityAdmin = "ROLE_ADMIN"

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	PhoneNum      string    `json:"phone_num"`
	Authorities   []string  `json:"authorities"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID      int64    `json:"user_id"`
	Authorities []string `json:"authorities"`
	TokenID     string   `json:"-"`
	TokenType   string   `json:"-"`
}

func (i Identity) HasAuthority(name string) bool {
	for _, a := range i.Authorities {
		if a == name {
			return true
		}
	}
	return false
}
