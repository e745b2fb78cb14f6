package database

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// schema holds the DDL for every storefront table, ordered so that foreign
// key targets exist before their referrers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		uid            INT          NOT NULL,
		password_hash  VARCHAR(100) NOT NULL,
		role           VARCHAR(20)  NOT NULL,
		PRIMARY KEY (uid)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		cid    INT          NOT NULL,
		name   VARCHAR(255) NOT NULL,
		email  VARCHAR(255) NOT NULL,
		PRIMARY KEY (cid),
		UNIQUE KEY uq_customers_email (email),
		FOREIGN KEY (cid) REFERENCES users (uid)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		pid          INT          NOT NULL AUTO_INCREMENT,
		name         VARCHAR(255) NOT NULL,
		slug         VARCHAR(255) NOT NULL,
		category     VARCHAR(100) NOT NULL,
		price        DOUBLE       NOT NULL,
		stock_count  INT          NOT NULL,
		description  TEXT,
		PRIMARY KEY (pid)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		cid         INT      NOT NULL,
		session_no  INT      NOT NULL,
		start_time  DATETIME NOT NULL,
		end_time    DATETIME NULL,
		PRIMARY KEY (cid, session_no),
		FOREIGN KEY (cid) REFERENCES customers (cid) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		cid         INT NOT NULL,
		session_no  INT NOT NULL,
		pid         INT NOT NULL,
		qty         INT NOT NULL,
		PRIMARY KEY (cid, session_no, pid),
		FOREIGN KEY (cid, session_no) REFERENCES sessions (cid, session_no),
		FOREIGN KEY (pid) REFERENCES products (pid)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		ono               INT      NOT NULL,
		cid               INT      NOT NULL,
		session_no        INT      NOT NULL,
		order_date        DATETIME NOT NULL,
		shipping_address  TEXT     NOT NULL,
		PRIMARY KEY (ono),
		FOREIGN KEY (cid, session_no) REFERENCES sessions (cid, session_no)
	)`,
	`CREATE TABLE IF NOT EXISTS orderlines (
		ono         INT    NOT NULL,
		line_no     INT    NOT NULL,
		pid         INT    NOT NULL,
		qty         INT    NOT NULL,
		unit_price  DOUBLE NOT NULL,
		PRIMARY KEY (ono, line_no),
		FOREIGN KEY (ono) REFERENCES orders (ono) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS search_log (
		id          CHAR(36)     NOT NULL,
		cid         INT          NOT NULL,
		session_no  INT          NOT NULL,
		ts          DATETIME     NOT NULL,
		query       VARCHAR(255) NOT NULL,
		PRIMARY KEY (id),
		FOREIGN KEY (cid, session_no) REFERENCES sessions (cid, session_no)
	)`,
	`CREATE TABLE IF NOT EXISTS product_views (
		id          CHAR(36) NOT NULL,
		cid         INT      NOT NULL,
		session_no  INT      NOT NULL,
		ts          DATETIME NOT NULL,
		pid         INT      NOT NULL,
		PRIMARY KEY (id),
		FOREIGN KEY (cid, session_no) REFERENCES sessions (cid, session_no),
		FOREIGN KEY (pid) REFERENCES products (pid)
	)`,
}

// InitSchema creates every table the storefront needs. Statements are
// idempotent so repeated startups are safe.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts the built-in sales account and the demo catalog when the
// corresponding tables are empty.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("sales"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			"INSERT INTO users (uid, password_hash, role) VALUES (?, ?, ?)",
			1, string(hash), "sales")
		if err != nil {
			return err
		}
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		seedProducts := []struct {
			name        string
			slug        string
			category    string
			price       float64
			stock       int
			description string
		}{
			{"Widget A", "widget-a", "gadgets", 9.99, 50, "Basic widget A"},
			{"Widget B", "widget-b", "gadgets", 14.99, 30, "Improved widget B"},
			{"Gizmo C", "gizmo-c", "tools", 24.50, 20, "Handy gizmo C"},
			{"Gizmo D", "gizmo-d", "tools", 49.00, 10, "Heavy-duty gizmo D"},
			{"Thing E", "thing-e", "misc", 5.00, 100, "Small thing E"},
			{"Thing F", "thing-f", "misc", 6.50, 80, "Small thing F"},
		}
		for _, p := range seedProducts {
			_, err := db.ExecContext(ctx,
				"INSERT INTO products (name, slug, category, price, stock_count, description) VALUES (?, ?, ?, ?, ?, ?)",
				p.name, p.slug, p.category, p.price, p.stock, p.description)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
