package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// orderLineData is the per-line snapshot taken at the start of checkout:
// cart quantity plus the product's current price and stock.
type orderLineData struct {
	ProductID int64
	Quantity  int
	Price     float64
	Stock     int
}

// OrderSummary is one row of a customer's order history, with the total
// computed from the order's lines.
type OrderSummary struct {
	Number          int64
	OrderDate       time.Time
	ShippingAddress string
	Total           float64
}

// OrderLineDetail is an order line joined with the product's name and
// category for display. UnitPrice is the historical price, not the current
// one.
type OrderLineDetail struct {
	LineNo    int
	ProductID int64
	Name      string
	Category  string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// OrderDetail is a full order: header, lines, and grand total.
type OrderDetail struct {
	Number          int64
	OrderDate       time.Time
	ShippingAddress string
	Lines           []OrderLineDetail
	Total           float64
}

// PlaceOrder converts the (customer, session) cart into an immutable order.
// The whole conversion is one serializable transaction: snapshot the cart
// with the product rows locked, validate stock, allocate the order number,
// write the order and its lines with unit prices captured now, decrement
// stock, clear the cart, commit. Any failure rolls everything back and
// leaves the cart untouched. A duplicate-key failure on the allocated order
// number retries the whole transaction once.
//
// PlaceOrder is deliberately not idempotent: each call consumes whatever the
// cart holds at that moment and produces a new order.
func (s *Store) PlaceOrder(ctx context.Context, customerID int64, sessionNo int, shippingAddress string) (int64, float64, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return 0, 0, validationErrorf("shipping address is required")
	}

	orderNo, total, err := s.placeOrderTx(ctx, customerID, sessionNo, shippingAddress)
	if isDuplicateKey(err) {
		orderNo, total, err = s.placeOrderTx(ctx, customerID, sessionNo, shippingAddress)
		if isDuplicateKey(err) {
			return 0, 0, ErrDuplicateID
		}
	}
	return orderNo, total, err
}

func (s *Store) placeOrderTx(ctx context.Context, customerID int64, sessionNo int, shippingAddress string) (int64, float64, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	// Snapshot the cart and lock the product rows so no concurrent checkout
	// or price change slips between validation and the stock decrement.
	rows, err := tx.QueryContext(ctx, `
		SELECT c.pid, c.qty, p.price, p.stock_count
		FROM cart c
		JOIN products p ON c.pid = p.pid
		WHERE c.cid = ? AND c.session_no = ?
		ORDER BY c.pid
		FOR UPDATE`,
		customerID, sessionNo)
	if err != nil {
		return 0, 0, err
	}

	var lines []orderLineData
	for rows.Next() {
		var line orderLineData
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Price, &line.Stock); err != nil {
			rows.Close()
			return 0, 0, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, 0, err
	}
	rows.Close()

	if len(lines) == 0 {
		return 0, 0, validationErrorf("cart is empty")
	}

	// The authoritative stock check. The add-to-cart check is advisory only,
	// so a line can legitimately exceed stock by now.
	for _, line := range lines {
		if line.Quantity > line.Stock {
			return 0, 0, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.Stock,
			}
		}
	}

	orderNo, err := nextOrderNumber(ctx, tx)
	if err != nil {
		return 0, 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (ono, cid, session_no, order_date, shipping_address) VALUES (?, ?, ?, ?, ?)",
		orderNo, customerID, sessionNo, time.Now(), shippingAddress)
	if err != nil {
		return 0, 0, err
	}

	var total float64
	for i, line := range lines {
		lineNo := i + 1
		_, err = tx.ExecContext(ctx,
			"INSERT INTO orderlines (ono, line_no, pid, qty, unit_price) VALUES (?, ?, ?, ?, ?)",
			orderNo, lineNo, line.ProductID, line.Quantity, line.Price)
		if err != nil {
			return 0, 0, err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE products SET stock_count = stock_count - ? WHERE pid = ?",
			line.Quantity, line.ProductID)
		if err != nil {
			return 0, 0, err
		}

		total += float64(line.Quantity) * line.Price
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM cart WHERE cid = ? AND session_no = ?",
		customerID, sessionNo)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return orderNo, total, nil
}

// ListOrders returns a customer's order history, newest first, with per-order
// totals computed from the historical unit prices.
func (s *Store) ListOrders(ctx context.Context, customerID int64) ([]OrderSummary, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT o.ono, o.order_date, o.shipping_address, COALESCE(SUM(ol.qty * ol.unit_price), 0) AS total
		FROM orders o
		LEFT JOIN orderlines ol ON o.ono = ol.ono
		WHERE o.cid = ?
		GROUP BY o.ono, o.order_date, o.shipping_address
		ORDER BY o.order_date DESC, o.ono DESC`,
		customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.Number, &o.OrderDate, &o.ShippingAddress, &o.Total); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetOrder returns one order with its lines joined to product names.
func (s *Store) GetOrder(ctx context.Context, orderNo int64) (*OrderDetail, error) {
	var detail OrderDetail
	err := s.DB.QueryRowContext(ctx,
		"SELECT ono, order_date, shipping_address FROM orders WHERE ono = ?",
		orderNo).Scan(&detail.Number, &detail.OrderDate, &detail.ShippingAddress)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT ol.line_no, ol.pid, p.name, p.category, ol.qty, ol.unit_price
		FROM orderlines ol
		JOIN products p ON ol.pid = p.pid
		WHERE ol.ono = ?
		ORDER BY ol.line_no`,
		orderNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line OrderLineDetail
		if err := rows.Scan(&line.LineNo, &line.ProductID, &line.Name, &line.Category,
			&line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		line.LineTotal = float64(line.Quantity) * line.UnitPrice
		detail.Lines = append(detail.Lines, line)
		detail.Total += line.LineTotal
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &detail, nil
}
