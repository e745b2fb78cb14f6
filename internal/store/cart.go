package store

import (
	"context"
	"database/sql"
)

// CartItem is a cart line joined with the product's current attributes, the
// shape the cart view renders.
type CartItem struct {
	ProductID   int64
	Name        string
	Category    string
	Price       float64
	StockCount  int
	Description string
	Quantity    int
	LineTotal   float64
}

// AddItem puts qty units of a product into the (customer, session) cart,
// adding to any existing line. The stock check here is advisory: it stops
// obvious over-ordering at add time, but stock is re-validated
// authoritatively at checkout, so a passing add does not reserve anything.
func (s *Store) AddItem(ctx context.Context, customerID int64, sessionNo int, productID int64, qty int) error {
	if qty <= 0 {
		return validationErrorf("quantity must be positive")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRowContext(ctx,
		"SELECT stock_count FROM products WHERE pid = ?", productID).Scan(&stock)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	newQty := qty
	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT qty FROM cart WHERE cid = ? AND session_no = ? AND pid = ?",
		customerID, sessionNo, productID).Scan(&existing)
	if err == nil {
		newQty = existing + qty
	} else if err != sql.ErrNoRows {
		return err
	}

	if newQty > stock {
		return &InsufficientStockError{ProductID: productID, Requested: newQty, Available: stock}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart (cid, session_no, pid, qty)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE qty = VALUES(qty)`,
		customerID, sessionNo, productID, newQty)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateItem replaces the quantity of an existing cart line.
func (s *Store) UpdateItem(ctx context.Context, customerID int64, sessionNo int, productID int64, newQty int) error {
	if newQty <= 0 {
		return validationErrorf("quantity must be positive")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRowContext(ctx,
		"SELECT stock_count FROM products WHERE pid = ?", productID).Scan(&stock)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if newQty > stock {
		return &InsufficientStockError{ProductID: productID, Requested: newQty, Available: stock}
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM cart WHERE cid = ? AND session_no = ? AND pid = ?",
		customerID, sessionNo, productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE cart SET qty = ? WHERE cid = ? AND session_no = ? AND pid = ?",
		newQty, customerID, sessionNo, productID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, customerID int64, sessionNo int, productID int64) error {
	_, err := s.DB.ExecContext(ctx,
		"DELETE FROM cart WHERE cid = ? AND session_no = ? AND pid = ?",
		customerID, sessionNo, productID)
	return err
}

// ListItems returns the cart joined with current product attributes, ordered
// by product id.
func (s *Store) ListItems(ctx context.Context, customerID int64, sessionNo int) ([]CartItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.pid, p.name, p.category, p.price, p.stock_count, p.description, c.qty
		FROM cart c
		JOIN products p ON c.pid = p.pid
		WHERE c.cid = ? AND c.session_no = ?
		ORDER BY c.pid`,
		customerID, sessionNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Category, &item.Price,
			&item.StockCount, &item.Description, &item.Quantity); err != nil {
			return nil, err
		}
		item.LineTotal = item.Price * float64(item.Quantity)
		items = append(items, item)
	}
	return items, rows.Err()
}

// ClearCart deletes every line in the (customer, session) cart.
func (s *Store) ClearCart(ctx context.Context, customerID int64, sessionNo int) error {
	_, err := s.DB.ExecContext(ctx,
		"DELETE FROM cart WHERE cid = ? AND session_no = ?",
		customerID, sessionNo)
	return err
}
