package service

import (
	"errors"
	"fmt"
)

// ErrCommitFailed wraps storage or lock-layer failures. The cause is logged
// by the engine; callers surface only a generic failure.
var ErrCommitFailed = errors.New("sale commit failed")

// ValidationError reports a malformed or missing request field. Never
// retried automatically; surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// ProductNotFoundError means the referenced SKU is missing or inactive; the
// cart line should be re-synced client-side.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.SKU)
}

// InsufficientStockError carries the product name so the caller can refresh
// and retry.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// IsBusinessError reports whether the error belongs to the caller-facing
// taxonomy (HTTP 400) rather than an internal failure (HTTP 500).
func IsBusinessError(err error) bool {
	var ve *ValidationError
	var pnf *ProductNotFoundError
	var ins *InsufficientStockError
	return errors.As(err, &ve) || errors.As(err, &pnf) || errors.As(err, &ins)
}
