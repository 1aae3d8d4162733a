package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jegatheesh001/billzen-server/internal/api/testutils"
	"github.com/Jegatheesh001/billzen-server/internal/models"
)

func TestDebtsAndSettlementFlow(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)

	alice := createUserViaAPI(t, testCtx, "Alice")
	bob := createUserViaAPI(t, testCtx, "Bob")
	carol := createUserViaAPI(t, testCtx, "Carol")

	createExpenseViaAPI(t, testCtx, models.CreateExpenseRequest{
		Description:    "Groceries",
		Amount:         30,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{alice.ID, bob.ID, carol.ID},
	})

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/debts", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var debts models.DebtsResponse
	testutils.DecodeJSON(t, w, &debts)

	byUser := map[string]float64{}
	for _, d := range debts.Debts {
		byUser[d.UserID] = d.Balance
	}
	assert.Equal(t, 20.00, byUser[alice.ID])
	assert.Equal(t, -10.00, byUser[bob.ID])
	assert.Equal(t, -10.00, byUser[carol.ID])
	assert.Equal(t, alice.ID, debts.Debts[0].UserID, "largest creditor first")

	// Bob settles up with Alice.
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/settlements",
		models.RecordSettlementRequest{PayerID: bob.ID, RecipientID: alice.ID, Amount: 10}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var settlement models.ExpenseResponse
	testutils.DecodeJSON(t, w, &settlement)
	require.NotNil(t, settlement.Expense.Category)
	assert.Equal(t, "Settlement", *settlement.Expense.Category)
	assert.Equal(t, []string{alice.ID}, settlement.Expense.ParticipantIDs)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/debts", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeJSON(t, w, &debts)
	for _, d := range debts.Debts {
		byUser[d.UserID] = d.Balance
	}
	assert.Equal(t, 10.00, byUser[alice.ID])
	assert.Equal(t, 0.00, byUser[bob.ID])
	assert.Equal(t, -10.00, byUser[carol.ID])
}

func TestSelfSettlementRejected(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)

	alice := createUserViaAPI(t, testCtx, "Alice")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/settlements",
		models.RecordSettlementRequest{PayerID: alice.ID, RecipientID: alice.ID, Amount: 10}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/expenses", nil, auth)
	var list models.ExpensesResponse
	testutils.DecodeJSON(t, w, &list)
	assert.Empty(t, list.Expenses, "rejected settlement must not produce an expense")
}
