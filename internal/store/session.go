package store

import (
	"context"
	"time"
)

// OpenSession starts a new session for a customer and returns its session
// number. Allocation and insert share one transaction; a duplicate session
// number (two logins racing on the same account) is retried once.
//
// Callers must pair every successful OpenSession with a CloseSession on all
// exit paths, normal or not:
//
//	sessionNo, err := st.OpenSession(ctx, cid)
//	if err != nil { ... }
//	defer st.CloseSession(ctx, cid, sessionNo)
func (s *Store) OpenSession(ctx context.Context, customerID int64) (int, error) {
	sessionNo, err := s.insertSession(ctx, customerID)
	if isDuplicateKey(err) {
		sessionNo, err = s.insertSession(ctx, customerID)
		if isDuplicateKey(err) {
			return 0, ErrDuplicateID
		}
	}
	return sessionNo, err
}

func (s *Store) insertSession(ctx context.Context, customerID int64) (int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	sessionNo, err := nextSessionNumber(ctx, tx, customerID)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (cid, session_no, start_time) VALUES (?, ?, ?)",
		customerID, sessionNo, time.Now())
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return sessionNo, nil
}

// CloseSession stamps the session's end time.
func (s *Store) CloseSession(ctx context.Context, customerID int64, sessionNo int) error {
	result, err := s.DB.ExecContext(ctx,
		"UPDATE sessions SET end_time = ? WHERE cid = ? AND session_no = ?",
		time.Now(), customerID, sessionNo)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
