package models

import "time"

// Order is the model for the 'orders' table. Orders are immutable once
// written.
type Order struct {
	Number          int64     `json:"number" db:"ono"`
	CustomerID      int64     `json:"customerId" db:"cid"`
	SessionNo       int       `json:"sessionNo" db:"session_no"`
	OrderDate       time.Time `json:"orderDate" db:"order_date"`
	ShippingAddress string    `json:"shippingAddress" db:"shipping_address"`
}

// OrderLine is the model for the 'orderlines' table. UnitPrice is the
// product price captured at the moment the order was placed.
type OrderLine struct {
	OrderNumber int64   `json:"orderNumber" db:"ono"`
	LineNo      int     `json:"lineNo" db:"line_no"`
	ProductID   int64   `json:"productId" db:"pid"`
	Quantity    int     `json:"quantity" db:"qty"`
	UnitPrice   float64 `json:"unitPrice" db:"unit_price"`
}
