package store

import (
	"context"
	"time"
)

// WeeklySalesReport aggregates the trailing seven days of orders.
type WeeklySalesReport struct {
	Orders         int
	ProductsSold   int
	Customers      int
	TotalSales     float64
	AvgPerCustomer float64
}

// ProductCount pairs a product with an occurrence count for the top-products
// report.
type ProductCount struct {
	ProductID int64
	Name      string
	Count     int
}

// WeeklySales builds the sales-role weekly summary: distinct orders,
// distinct products sold, distinct buying customers, total revenue, and the
// average spend per customer.
func (s *Store) WeeklySales(ctx context.Context) (*WeeklySalesReport, error) {
	cutoff := time.Now().AddDate(0, 0, -7)
	var report WeeklySalesReport

	err := s.DB.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT o.ono) FROM orders o WHERE o.order_date >= ?",
		cutoff).Scan(&report.Orders)
	if err != nil {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT ol.pid)
		FROM orderlines ol
		JOIN orders o ON ol.ono = o.ono
		WHERE o.order_date >= ?`,
		cutoff).Scan(&report.ProductsSold)
	if err != nil {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT o.cid) FROM orders o WHERE o.order_date >= ?",
		cutoff).Scan(&report.Customers)
	if err != nil {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ol.qty * ol.unit_price), 0)
		FROM orderlines ol
		JOIN orders o ON ol.ono = o.ono
		WHERE o.order_date >= ?`,
		cutoff).Scan(&report.TotalSales)
	if err != nil {
		return nil, err
	}

	if report.Customers > 0 {
		report.AvgPerCustomer = report.TotalSales / float64(report.Customers)
	}
	return &report, nil
}

// TopProductsByOrders ranks products by the number of distinct orders they
// appear in and returns the top three, keeping any products tied with the
// third place.
func (s *Store) TopProductsByOrders(ctx context.Context) ([]ProductCount, error) {
	return s.topProducts(ctx, `
		SELECT ol.pid, p.name, COUNT(DISTINCT ol.ono) AS cnt
		FROM orderlines ol
		JOIN products p ON ol.pid = p.pid
		GROUP BY ol.pid, p.name
		ORDER BY cnt DESC, ol.pid ASC`)
}

// TopProductsByViews ranks products by recorded detail views, same top-three
// cutoff with ties kept.
func (s *Store) TopProductsByViews(ctx context.Context) ([]ProductCount, error) {
	return s.topProducts(ctx, `
		SELECT v.pid, p.name, COUNT(*) AS cnt
		FROM product_views v
		JOIN products p ON v.pid = p.pid
		GROUP BY v.pid, p.name
		ORDER BY cnt DESC, v.pid ASC`)
}

func (s *Store) topProducts(ctx context.Context, query string) ([]ProductCount, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []ProductCount
	for rows.Next() {
		var pc ProductCount
		if err := rows.Scan(&pc.ProductID, &pc.Name, &pc.Count); err != nil {
			return nil, err
		}
		all = append(all, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(all) <= 3 {
		return all, nil
	}
	threshold := all[2].Count
	cut := len(all)
	for i := 3; i < len(all); i++ {
		if all[i].Count < threshold {
			cut = i
			break
		}
	}
	return all[:cut], nil
}
