package model

import (
	"time"

	"isp-selfcare/internal/domain"
)

// User is the minimal account record the billing flow needs: the email
// goes to the gateway on initialize. Credential checks live elsewhere.
type User struct {
	ID        string // UUID
	Email     string
	FullName  string
	Phone     string
	CreatedAt time.Time
}

func NewUser(id, email, fullName string) (*User, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{ID: id, Email: email, FullName: fullName, CreatedAt: time.Now()}, nil
}
