package ledger

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

func user(id, name string) models.User {
	return models.User{ID: id, Name: name}
}

func expense(amount float64, paidBy string, participants ...string) models.Expense {
	return models.Expense{
		Description:    "test",
		Amount:         amount,
		PaidByID:       paidBy,
		ParticipantIDs: participants,
	}
}

func balanceOf(t *testing.T, debts []models.Debt, userID string) float64 {
	t.Helper()
	for _, d := range debts {
		if d.UserID == userID {
			return d.Balance
		}
	}
	t.Fatalf("no debt entry for user %s", userID)
	return 0
}

func TestComputeBalances_EqualSplit(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob"), user("c", "Carol")}
	expenses := []models.Expense{expense(30, "a", "a", "b", "c")}

	debts := ComputeBalances(expenses, users)

	require.Len(t, debts, 3)
	assert.Equal(t, 20.00, balanceOf(t, debts, "a"))
	assert.Equal(t, -10.00, balanceOf(t, debts, "b"))
	assert.Equal(t, -10.00, balanceOf(t, debts, "c"))
}

func TestComputeBalances_PayerNotParticipant(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob")}
	expenses := []models.Expense{expense(10, "a", "b")}

	debts := ComputeBalances(expenses, users)

	assert.Equal(t, 10.00, balanceOf(t, debts, "a"))
	assert.Equal(t, -10.00, balanceOf(t, debts, "b"))
}

func TestComputeBalances_SelfPayerNeutrality(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob")}
	expenses := []models.Expense{expense(42.37, "a", "a")}

	debts := ComputeBalances(expenses, users)

	assert.Equal(t, 0.00, balanceOf(t, debts, "a"))
	assert.Equal(t, 0.00, balanceOf(t, debts, "b"))
}

func TestComputeBalances_EmptyInputs(t *testing.T) {
	assert.Empty(t, ComputeBalances(nil, nil))
	assert.Empty(t, ComputeBalances([]models.Expense{expense(10, "a", "b")}, nil))
	debts := ComputeBalances(nil, []models.User{user("a", "Alice")})
	require.Len(t, debts, 1)
	assert.Equal(t, 0.00, debts[0].Balance)
}

func TestComputeBalances_UnknownIDsDiscarded(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob")}
	// Payer and one participant are not known users; the engine must not
	// fail and must not report them.
	expenses := []models.Expense{
		expense(30, "ghost", "a", "b", "phantom"),
	}

	debts := ComputeBalances(expenses, users)

	require.Len(t, debts, 2)
	assert.Equal(t, -10.00, balanceOf(t, debts, "a"))
	assert.Equal(t, -10.00, balanceOf(t, debts, "b"))
}

func TestComputeBalances_EmptyParticipantsSkipped(t *testing.T) {
	users := []models.User{user("a", "Alice")}
	expenses := []models.Expense{{Description: "broken", Amount: 10, PaidByID: "a"}}

	debts := ComputeBalances(expenses, users)

	assert.Equal(t, 0.00, balanceOf(t, debts, "a"))
}

func TestComputeBalances_OrderingAndTies(t *testing.T) {
	users := []models.User{
		user("a", "Alice"), user("b", "Bob"), user("c", "Carol"), user("d", "Dave"),
	}
	// a ends at +20, b and d at -10 each (tie), c at 0.
	expenses := []models.Expense{expense(20, "a", "b", "d")}

	debts := ComputeBalances(expenses, users)

	require.Len(t, debts, 4)
	assert.Equal(t, "a", debts[0].UserID)
	assert.Equal(t, "c", debts[1].UserID)
	// Tied balances keep input order of users: b before d.
	assert.Equal(t, "b", debts[2].UserID)
	assert.Equal(t, "d", debts[3].UserID)
}

func TestComputeBalances_RoundsOnceAtTheEnd(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob"), user("c", "Carol"), user("d", "Dave")}
	// Three 1.00 expenses split three ways: each share is 0.333..., so each
	// participant accumulates 0.999... Rounding per share would yield -0.99;
	// rounding the final total yields -1.00.
	expenses := []models.Expense{
		expense(1, "a", "b", "c", "d"),
		expense(1, "a", "b", "c", "d"),
		expense(1, "a", "b", "c", "d"),
	}

	debts := ComputeBalances(expenses, users)

	assert.Equal(t, 3.00, balanceOf(t, debts, "a"))
	assert.Equal(t, -1.00, balanceOf(t, debts, "b"))
	assert.Equal(t, -1.00, balanceOf(t, debts, "c"))
	assert.Equal(t, -1.00, balanceOf(t, debts, "d"))
}

func TestComputeBalances_ZeroSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}
	users := make([]models.User, len(ids))
	for i, id := range ids {
		users[i] = user(id, "User "+id)
	}

	var expenses []models.Expense
	for i := 0; i < 200; i++ {
		amount := float64(rng.Intn(100000)+1) / 100
		payer := ids[rng.Intn(len(ids))]
		n := rng.Intn(len(ids)) + 1
		participants := append([]string(nil), ids...)
		rng.Shuffle(len(participants), func(x, y int) {
			participants[x], participants[y] = participants[y], participants[x]
		})
		expenses = append(expenses, expense(amount, payer, participants[:n]...))
	}

	debts := ComputeBalances(expenses, users)

	sum := 0.0
	for _, d := range debts {
		sum += d.Balance
	}
	assert.LessOrEqual(t, math.Abs(sum), 0.01*float64(len(users)),
		"rounded balances must sum to zero within tolerance")
}

func TestComputeBalances_Deterministic(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob"), user("c", "Carol")}
	expenses := []models.Expense{
		expense(30, "a", "a", "b", "c"),
		expense(12.34, "b", "a", "c"),
		expense(0.01, "c", "a", "b", "c"),
	}

	first := ComputeBalances(expenses, users)
	second := ComputeBalances(expenses, users)

	require.Equal(t, first, second, "identical input must yield identical output")
}

func TestComputeBalances_SettlementRoundTrip(t *testing.T) {
	users := []models.User{user("a", "Alice"), user("b", "Bob")}
	// A owes B exactly 15.00.
	expenses := []models.Expense{expense(30, "b", "a", "b")}

	debts := ComputeBalances(expenses, users)
	assert.Equal(t, -15.00, balanceOf(t, debts, "a"))
	assert.Equal(t, 15.00, balanceOf(t, debts, "b"))

	noopEnsure := func(_ context.Context, name string) (string, error) { return name, nil }
	draft, err := ComposeSettlement(context.Background(), "a", "b", 15.00, "Alice", "Bob", noopEnsure)
	require.NoError(t, err)

	debts = ComputeBalances(append(expenses, *draft), users)
	assert.Equal(t, 0.00, balanceOf(t, debts, "a"))
	assert.Equal(t, 0.00, balanceOf(t, debts, "b"))
}
