// Package testutils provides shared setup for API handler tests. Tests run
// against the in-memory repository, so no database is required.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Jegatheesh001/billzen-server/internal/api"
	"github.com/Jegatheesh001/billzen-server/internal/models"
	"github.com/Jegatheesh001/billzen-server/internal/repository"
	"github.com/Jegatheesh001/billzen-server/internal/service"
)

const testJWTSecret = "test-secret-key"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  *repository.MemoryRepository
	Service     service.Service
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext creates a router backed by a fresh in-memory repository
// and signs up one authenticated test user.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := repository.NewMemoryRepository()
	svc := service.NewDefaultService(repo, testJWTSecret)
	handler := api.NewHandler(svc, testJWTSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)

	signUp, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "tester@example.com",
		Password: "test-password",
		Name:     "Tester",
	})
	require.NoError(t, err, "failed to create test user")

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "tester@example.com",
		Password: "test-password",
	})
	require.NoError(t, err, "failed to log in test user")

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		TestUserID:  signUp.UserID,
		TestUserJWT: login.Token,
	}
}

// PerformRequest issues a request against the router and records the
// response. body may be nil, a raw json.RawMessage, or any value that
// marshals to JSON.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case json.RawMessage:
		reader = bytes.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns the Authorization header for the given token.
func AuthHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// DecodeJSON unmarshals the recorded body into out.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
