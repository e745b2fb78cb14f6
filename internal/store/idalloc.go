package store

import (
	"context"
	"database/sql"
)

// Identifier allocation is read-max-then-insert: each helper reads the
// current maximum id for its scope and adds 1, falling back to the baseline
// when no rows exist. There is no isolation on its own: two concurrent
// callers can compute the same next id and the later insert fails with a
// duplicate key. Every caller therefore runs the allocation and the insert
// inside one transaction and retries the whole transaction once when the
// insert reports a duplicate (see isDuplicateKey).

// nextUserID returns the next free user id. User ids start at 10001.
func nextUserID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(uid), 10000) + 1 FROM users").Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// nextOrderNumber returns the next order number. Order numbers are global
// and start at 1.
func nextOrderNumber(ctx context.Context, tx *sql.Tx) (int64, error) {
	var ono int64
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(ono), 0) + 1 FROM orders").Scan(&ono)
	if err != nil {
		return 0, err
	}
	return ono, nil
}

// nextSessionNumber returns the next session number for one customer.
// Session numbers start at 1 per customer and are never reused.
func nextSessionNumber(ctx context.Context, tx *sql.Tx, customerID int64) (int, error) {
	var sessionNo int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(session_no), 0) + 1 FROM sessions WHERE cid = ?",
		customerID).Scan(&sessionNo)
	if err != nil {
		return 0, err
	}
	return sessionNo, nil
}
