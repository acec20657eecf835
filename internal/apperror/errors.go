package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("permission denied")
	ErrNotFound               = errors.New("not found")
	ErrBusy                   = errors.New("resource busy, try again")
)

// ValidationError rejects input before any state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// BadRequest wraps a request decoding failure.
func BadRequest(err error) error {
	return &ValidationError{Message: "malformed request: " + err.Error()}
}

// StockExceededError is raised by the cart when a quantity goes above the known stock snapshot.
type StockExceededError struct {
	ProductID   string
	ProductName string
	Size        string
	Requested   int
	Available   int
}

func (e *StockExceededError) Error() string {
	name := e.ProductName
	if e.Size != "" {
		name = fmt.Sprintf("%s (%s)", name, e.Size)
	}
	return fmt.Sprintf("cannot add more of %s: requested %d, only %d in stock", name, e.Requested, e.Available)
}

// InsufficientStockError is raised by the inventory when the stored stock is lower than the sale.
type InsufficientStockError struct {
	ProductID string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	target := e.ProductID
	if e.Size != "" {
		target = fmt.Sprintf("%s size %s", target, e.Size)
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", target, e.Requested, e.Available)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func NotFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStockExceeded(err error) bool {
	var s *StockExceededError
	return errors.As(err, &s)
}

func IsInsufficientStock(err error) bool {
	var s *InsufficientStockError
	return errors.As(err, &s)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
