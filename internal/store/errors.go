package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when an allocated identifier collides with
	// an existing row and the single retry also failed.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrInvalidCredentials is returned by Authenticate for an unknown user
	// or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports rejected input: an empty shipping address, a
// non-positive quantity or price, an empty cart at checkout.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a requested quantity exceeding a product's
// current stock, naming the offending product.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062), the way an allocator race surfaces.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
