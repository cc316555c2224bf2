package services

import (
	"errors"
	"fmt"
)

// InsufficientStockError is returned when a transition precondition fails.
// It names the exact item and bucket that is short so the caller can render
// an actionable message without re-deriving anything.
type InsufficientStockError struct {
	Item      string // sku of the product or combo product
	Bucket    string // stock bucket that is short (models.Status* label)
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s %s requested %d, available %d",
		e.Item, e.Bucket, e.Requested, e.Available)
}

// InvalidQuantityError rejects non-positive quantities before any lookup.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: %d, must be greater than 0", e.Quantity)
}

// UnknownItemError is returned when the referenced product, combo product or
// warehouse does not exist.
type UnknownItemError struct {
	Kind string // "product" | "combo product" | "warehouse"
	ID   uint
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown %s: %d", e.Kind, e.ID)
}

// ContentionTimeoutError is returned when the bounded lock wait on the stock
// rows expired. It is the only retryable error kind.
type ContentionTimeoutError struct {
	Operation string
}

func (e *ContentionTimeoutError) Error() string {
	return fmt.Sprintf("stock rows locked by another operation during %s, retry later", e.Operation)
}

// ConfigurationMissingError flags broken master data, e.g. a combo product
// without components.
type ConfigurationMissingError struct {
	Reason string
}

func (e *ConfigurationMissingError) Error() string {
	return "configuration missing: " + e.Reason
}

// IsRetryable reports whether the caller may retry the same request with
// backoff.
func IsRetryable(err error) bool {
	var contention *ContentionTimeoutError
	return errors.As(err, &contention)
}
