package ledger

import (
	"context"
	"fmt"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// SettlementCategory is the reserved category name that tags settlement
// transfers so spending reports can exclude them. The match against existing
// categories is case-insensitive.
const SettlementCategory = "Settlement"

// EnsureCategoryFunc guarantees that a category with the given name exists,
// creating it if absent, and returns its canonical spelling. Implementations
// treat a creation conflict from a concurrent creator as success.
type EnsureCategoryFunc func(ctx context.Context, name string) (string, error)

// ComposeSettlement builds an expense draft recording a transfer from payer to
// recipient. The draft has exactly one participant, the recipient: run through
// ComputeBalances, that moves the recipient's balance down by the full amount
// and the payer's up by the full amount, which is the correct direction for a
// repayment.
//
// The composer performs no persistence; the draft is submitted through the
// ordinary expense-creation path. If ensureCategory cannot guarantee the
// Settlement category, no draft is returned and the error wraps
// ErrSettlementCategoryUnavailable with the underlying cause.
func ComposeSettlement(ctx context.Context, payerID, recipientID string, amount float64, payerName, recipientName string, ensureCategory EnsureCategoryFunc) (*models.Expense, error) {
	if payerID == recipientID {
		return nil, &ValidationError{Field: "recipientId", Reason: "payer and recipient must be different users"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	category, err := ensureCategory(ctx, SettlementCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettlementCategoryUnavailable, err)
	}
	return &models.Expense{
		Description:    fmt.Sprintf("Settlement: %s to %s", payerName, recipientName),
		Amount:         amount,
		PaidByID:       payerID,
		ParticipantIDs: []string{recipientID},
		Category:       &category,
	}, nil
}
