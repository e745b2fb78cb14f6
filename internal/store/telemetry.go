package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Search and view logs are append-only telemetry scoped to a session. They
// feed the sales reports but carry no core invariants.

// RecordSearch logs the raw search string a customer entered.
func (s *Store) RecordSearch(ctx context.Context, customerID int64, sessionNo int, query string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO search_log (id, cid, session_no, ts, query) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), customerID, sessionNo, time.Now(), query)
	return err
}

// RecordView logs a product-detail view.
func (s *Store) RecordView(ctx context.Context, customerID int64, sessionNo int, productID int64) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO product_views (id, cid, session_no, ts, pid) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), customerID, sessionNo, time.Now(), productID)
	return err
}
