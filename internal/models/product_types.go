package models

// Product is the model for the 'products' table. Price and stock are mutated
// by the sales role; stock is also decremented by order placement.
type Product struct {
	ID          int64   `json:"id" db:"pid"`
	Name        string  `json:"name" db:"name"`
	Slug        string  `json:"slug" db:"slug"`
	Category    string  `json:"category" db:"category"`
	Price       float64 `json:"price" db:"price"`
	StockCount  int     `json:"stock" db:"stock_count"`
	Description string  `json:"description" db:"description"`
}
