package models

// CartLine is the model for the 'cart' table. Lines are unique per
// (customer, session, product).
type CartLine struct {
	CustomerID int64 `json:"customerId" db:"cid"`
	SessionNo  int   `json:"sessionNo" db:"session_no"`
	ProductID  int64 `json:"productId" db:"pid"`
	Quantity   int   `json:"quantity" db:"qty"`
}
