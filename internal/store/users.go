package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/dkroy/storefront-golang/internal/models"
)

// Signup registers a new customer account. The users row and the customers
// row are inserted in one transaction so a customer never exists without its
// user, and the generated id doubles as the customer id. A duplicate-key
// failure on the allocated uid is retried once with a fresh allocation.
func (s *Store) Signup(ctx context.Context, name, email, plaintextPassword string) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, validationErrorf("email is required")
	}
	if plaintextPassword == "" {
		return 0, validationErrorf("password is required")
	}

	var exists int
	err := s.DB.QueryRowContext(ctx,
		"SELECT 1 FROM customers WHERE LOWER(email) = LOWER(?)", email).Scan(&exists)
	if err == nil {
		return 0, validationErrorf("email %s is already registered", email)
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	var password models.Password
	if err := password.Set(plaintextPassword); err != nil {
		return 0, err
	}

	uid, err := s.insertCustomer(ctx, name, email, password.Hash)
	if isDuplicateKey(err) {
		// Allocator race: another signup claimed the same uid. Retry once.
		uid, err = s.insertCustomer(ctx, name, email, password.Hash)
		if isDuplicateKey(err) {
			return 0, ErrDuplicateID
		}
	}
	if err != nil {
		return 0, err
	}
	return uid, nil
}

func (s *Store) insertCustomer(ctx context.Context, name, email, passwordHash string) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	uid, err := nextUserID(ctx, tx)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (uid, password_hash, role) VALUES (?, ?, ?)",
		uid, passwordHash, models.RoleCustomer)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO customers (cid, name, email) VALUES (?, ?, ?)",
		uid, name, email)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uid, nil
}

// Authenticate verifies a login against the users table. The login may be a
// numeric user id or a customer email (case-insensitive). It returns
// ErrInvalidCredentials for an unknown user or a wrong password.
func (s *Store) Authenticate(ctx context.Context, login, plaintextPassword string) (*models.User, error) {
	login = strings.TrimSpace(login)

	var user models.User
	var err error
	if uid, convErr := strconv.ParseInt(login, 10, 64); convErr == nil {
		err = s.DB.QueryRowContext(ctx,
			"SELECT uid, role, password_hash FROM users WHERE uid = ?",
			uid).Scan(&user.ID, &user.Role, &user.PasswordHash)
	} else {
		err = s.DB.QueryRowContext(ctx, `
			SELECT u.uid, u.role, u.password_hash
			FROM users u
			JOIN customers c ON u.uid = c.cid
			WHERE LOWER(c.email) = LOWER(?)`,
			login).Scan(&user.ID, &user.Role, &user.PasswordHash)
	}
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(plaintextPassword)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
