package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gosimple/slug"

	"github.com/dkroy/storefront-golang/internal/models"
)

// GetProduct returns a single product or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var p models.Product
	err := s.DB.QueryRowContext(ctx, `
		SELECT pid, name, slug, category, price, stock_count, description
		FROM products
		WHERE pid = ?`,
		productID).Scan(&p.ID, &p.Name, &p.Slug, &p.Category, &p.Price, &p.StockCount, &p.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts matches keywords against product names and descriptions.
// Matching is a case-insensitive substring test; multiple keywords are
// AND-combined, each keyword matching in either field. Results come back in
// ascending product-id order.
func (s *Store) SearchProducts(ctx context.Context, keywords []string) ([]models.Product, error) {
	var cleaned []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			cleaned = append(cleaned, strings.ToLower(kw))
		}
	}
	if len(cleaned) == 0 {
		return nil, validationErrorf("at least one keyword is required")
	}

	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(`
		SELECT pid, name, slug, category, price, stock_count, description
		FROM products
		WHERE 1=1`)
	for _, kw := range cleaned {
		queryBuilder.WriteString(" AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		like := "%" + kw + "%"
		args = append(args, like, like)
	}
	queryBuilder.WriteString(" ORDER BY pid")

	rows, err := s.DB.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Category, &p.Price, &p.StockCount, &p.Description); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a new product and returns its id. The slug is
// derived from the name.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, validationErrorf("product name is required")
	}
	if p.Price <= 0 {
		return 0, validationErrorf("price must be positive")
	}
	if p.StockCount < 0 {
		return 0, validationErrorf("stock count must not be negative")
	}

	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO products (name, slug, category, price, stock_count, description) VALUES (?, ?, ?, ?, ?, ?)",
		p.Name, slug.Make(p.Name), p.Category, p.Price, p.StockCount, p.Description)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdatePrice sets a product's price. Sales-role operation.
func (s *Store) UpdatePrice(ctx context.Context, productID int64, price float64) error {
	if price <= 0 {
		return validationErrorf("price must be positive")
	}
	return s.updateProductField(ctx, productID, "UPDATE products SET price = ? WHERE pid = ?", price)
}

// UpdateStock sets a product's stock count. Sales-role operation; the Order
// Engine decrements stock separately during checkout.
func (s *Store) UpdateStock(ctx context.Context, productID int64, stockCount int) error {
	if stockCount < 0 {
		return validationErrorf("stock count must not be negative")
	}
	return s.updateProductField(ctx, productID, "UPDATE products SET stock_count = ? WHERE pid = ?", stockCount)
}

// updateProductField verifies the product exists before updating, so setting
// a field to its current value is not mistaken for a missing row.
func (s *Store) updateProductField(ctx context.Context, productID int64, query string, value interface{}) error {
	var exists int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM products WHERE pid = ?", productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, query, value, productID)
	return err
}
