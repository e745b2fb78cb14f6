package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Roles stored in the users table.
const (
	RoleCustomer = "customer"
	RoleSales    = "sales"
)

// User is the model for the 'users' table. The role is fixed at creation.
type User struct {
	ID           int64  `json:"id" db:"uid"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Customer is the model for the 'customers' table. A customer shares its id
// with the matching users row.
type Customer struct {
	ID    int64  `json:"id" db:"cid"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// Password wraps a plaintext password and its bcrypt hash.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
