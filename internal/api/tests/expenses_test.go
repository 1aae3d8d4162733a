package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jegatheesh001/billzen-server/internal/api/testutils"
	"github.com/Jegatheesh001/billzen-server/internal/models"
)

func createUserViaAPI(t *testing.T, testCtx *testutils.TestContext, name string) *models.User {
	t.Helper()
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/users",
		models.CreateUserRequest{Name: name}, testutils.AuthHeaders(testCtx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.UserResponse
	testutils.DecodeJSON(t, w, &resp)
	return resp.User
}

func createExpenseViaAPI(t *testing.T, testCtx *testutils.TestContext, req models.CreateExpenseRequest) *models.Expense {
	t.Helper()
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/expenses",
		req, testutils.AuthHeaders(testCtx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.ExpenseResponse
	testutils.DecodeJSON(t, w, &resp)
	return resp.Expense
}

func TestExpenseLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)

	alice := createUserViaAPI(t, testCtx, "Alice")
	bob := createUserViaAPI(t, testCtx, "Bob")

	category := "Food"
	expense := createExpenseViaAPI(t, testCtx, models.CreateExpenseRequest{
		Description:    "Dinner",
		Amount:         30,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{alice.ID, bob.ID},
		Category:       &category,
	})
	assert.NotEmpty(t, expense.ID)
	assert.False(t, expense.Date.IsZero(), "date is server-assigned")

	// List includes the expense.
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/expenses", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.ExpensesResponse
	testutils.DecodeJSON(t, w, &list)
	require.Len(t, list.Expenses, 1)

	// Patch with an explicit null clears the category; the eventId key is
	// absent so it stays untouched.
	payload := json.RawMessage(`{"category": null, "amount": 42.5}`)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, "/api/expenses/"+expense.ID, payload, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.ExpenseResponse
	testutils.DecodeJSON(t, w, &updated)
	assert.Nil(t, updated.Expense.Category)
	assert.Equal(t, 42.5, updated.Expense.Amount)

	// Optional fields must be absent from the JSON, not null.
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	var expenseJSON map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["expense"], &expenseJSON))
	_, hasCategory := expenseJSON["category"]
	assert.False(t, hasCategory, "cleared category must be omitted from the payload")

	// Delete.
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/expenses/"+expense.ID, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/expenses/"+expense.ID, nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseValidationErrors(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	alice := createUserViaAPI(t, testCtx, "Alice")

	// Non-positive amount never reaches storage.
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/expenses", models.CreateExpenseRequest{
		Description:    "Bad",
		Amount:         -5,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{alice.ID},
	}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Dangling participant reference.
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/expenses", models.CreateExpenseRequest{
		Description:    "Dangling",
		Amount:         10,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{"ghost"},
	}, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/expenses", nil, auth)
	var list models.ExpensesResponse
	testutils.DecodeJSON(t, w, &list)
	assert.Empty(t, list.Expenses)
}

func TestBulkDeleteExpenses(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	alice := createUserViaAPI(t, testCtx, "Alice")

	var ids []string
	for i := 0; i < 3; i++ {
		e := createExpenseViaAPI(t, testCtx, models.CreateExpenseRequest{
			Description:    fmt.Sprintf("Expense %d", i),
			Amount:         10,
			PaidByID:       alice.ID,
			ParticipantIDs: []string{alice.ID},
		})
		ids = append(ids, e.ID)
	}

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/expenses/bulk-delete",
		models.BulkDeleteExpensesRequest{IDs: ids[:2]}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.DeletedResponse
	testutils.DecodeJSON(t, w, &resp)
	assert.Equal(t, 2, resp.Deleted)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/expenses", nil, auth)
	var list models.ExpensesResponse
	testutils.DecodeJSON(t, w, &list)
	assert.Len(t, list.Expenses, 1)
}

func TestListExpensesByEvent(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	alice := createUserViaAPI(t, testCtx, "Alice")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/events",
		models.CreateEventRequest{Name: "Trip", MemberIDs: []string{alice.ID}}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	var eventResp models.EventResponse
	testutils.DecodeJSON(t, w, &eventResp)

	createExpenseViaAPI(t, testCtx, models.CreateExpenseRequest{
		Description:    "In event",
		Amount:         10,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{alice.ID},
		EventID:        &eventResp.Event.ID,
	})
	createExpenseViaAPI(t, testCtx, models.CreateExpenseRequest{
		Description:    "Outside event",
		Amount:         10,
		PaidByID:       alice.ID,
		ParticipantIDs: []string{alice.ID},
	})

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/expenses?eventId="+eventResp.Event.ID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.ExpensesResponse
	testutils.DecodeJSON(t, w, &list)
	require.Len(t, list.Expenses, 1)
	assert.Equal(t, "In event", list.Expenses[0].Description)
}
