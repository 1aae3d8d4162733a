package ledger

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed entity or operation argument. It is
// always raised before any write happens, so a validation failure never
// leaves state partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrSettlementCategoryUnavailable signals that the settlement composer could
// not guarantee its required category. Callers must not fall back to creating
// the expense without a category.
var ErrSettlementCategoryUnavailable = errors.New("settlement category unavailable")
