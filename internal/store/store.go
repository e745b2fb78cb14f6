package store

import (
	"database/sql"
)

// Store holds the database handle every storefront operation runs against.
// Presentation layers (the terminal menus) call into Store and never touch
// SQL directly.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}
