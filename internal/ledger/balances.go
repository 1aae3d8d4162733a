// Package ledger implements the balance engine: pure computation over
// immutable snapshots of users and expenses. Nothing in this package performs
// I/O, logs, or mutates its inputs, so it is safe to call from any number of
// concurrent readers.
package ledger

import (
	"math"
	"sort"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// ComputeBalances produces one signed net balance per known user.
//
// Each expense credits its payer with the full amount and debits every
// participant with an equal share (amount / participant count). A payer who is
// also a participant receives both the credit and their own share's debit, so
// they net out owing only the other participants' shares. Ids that do not
// match any user in users still accumulate during the pass but are dropped
// from the result; the engine never fails on dangling references.
//
// Balances are rounded half-away-from-zero to 2 decimals exactly once, on the
// final per-user total. Rounding per share instead would compound error across
// many expenses. Rounded balances are not re-normalized, so the sum over all
// users can drift from zero by up to a cent per user.
//
// The result is ordered by balance descending (largest creditor first); ties
// keep the input order of users. Empty users yields an empty result.
func ComputeBalances(expenses []models.Expense, users []models.User) []models.Debt {
	totals := make(map[string]float64, len(users))
	for _, u := range users {
		totals[u.ID] = 0
	}

	for _, e := range expenses {
		if len(e.ParticipantIDs) == 0 {
			// Malformed expense that slipped past validation; nothing to split.
			continue
		}
		totals[e.PaidByID] += e.Amount
		share := e.Amount / float64(len(e.ParticipantIDs))
		for _, id := range e.ParticipantIDs {
			totals[id] -= share
		}
	}

	debts := make([]models.Debt, 0, len(users))
	for _, u := range users {
		debts = append(debts, models.Debt{
			UserID:    u.ID,
			UserName:  u.Name,
			AvatarURL: u.AvatarURL,
			Balance:   round2(totals[u.ID]),
		})
	}

	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].Balance > debts[j].Balance
	})
	return debts
}

// round2 rounds half-away-from-zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
