package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"booktank/internal/config"
	"booktank/internal/database"
	"booktank/internal/repositories"
	"booktank/internal/server"
	"booktank/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t          *testing.T
	app        *fiber.App
	adminToken string
}

// setupApp builds the full application on a fresh SQLite file and seeds one admin.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		AppEnv:         "test",
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    database.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")),
		JWTSecret:      "test_jwt_secret",
		JWTAlgorithm:   "HS256",
		JWTTTL:         time.Hour,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	authService := services.NewAuthService(repositories.NewGORMUnitOfWork(db), cfg)
	_, err = authService.CreateAdmin(context.Background(), "admin", "adminpass123")
	require.NoError(t, err)

	env := &testEnv{t: t, app: server.New(cfg, db, nil)}
	env.adminToken = env.login("admin", "adminpass123")
	return env
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func (e *testEnv) do(method, path, token string, body any) (int, map[string]any) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []any
		require.NoError(e.t, json.Unmarshal(raw, &list))
		out["items"] = list
	}
	return resp.StatusCode, out
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(e.t, http.StatusOK, status, "login %s: %v", username, body)
	return body["token"].(string)
}

func (e *testEnv) signUpCustomer(username string) (int64, string) {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/v1/profile/customer", "", map[string]string{
		"username": username, "password": "password123",
	})
	require.Equal(e.t, http.StatusCreated, status, "%v", body)
	return int64(body["user_id"].(float64)), e.login(username, "password123")
}

func (e *testEnv) createAuthor(username, firstName string) (int64, string) {
	e.t.Helper()
	status, city := e.do(http.MethodPost, "/api/v1/profile/city", e.adminToken, map[string]string{"name": "Isfahan"})
	require.Equal(e.t, http.StatusCreated, status, "%v", city)

	status, body := e.do(http.MethodPost, "/api/v1/profile/author", e.adminToken, map[string]any{
		"user":    map[string]string{"username": username, "password": "password123", "first_name": firstName},
		"city_id": city["id"],
	})
	require.Equal(e.t, http.StatusCreated, status, "%v", body)
	return int64(body["user_id"].(float64)), e.login(username, "password123")
}

func TestHealth(t *testing.T) {
	env := setupApp(t)
	status, body := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterTwiceIsConflict(t *testing.T) {
	env := setupApp(t)

	status, body := env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password")

	status, body = env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "different123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "username 'alice' already taken", body["message"])

	_, list := env.do(http.MethodGet, "/api/v1/user", env.adminToken, nil)
	count := 0
	for _, u := range list["items"].([]any) {
		if u.(map[string]any)["username"] == "alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	env := setupApp(t)

	status, body := env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Contains(t, body["errors"], "Password")

	status, _ = env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob", "password": "password123", "phone_number": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob", "password": "password123", "phone_number": "09121234567",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestAuthenticationFailures(t *testing.T) {
	env := setupApp(t)

	status, body := env.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "not authenticated", body["message"])

	status, body = env.do(http.MethodGet, "/api/v1/auth/me", "garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "not authenticated", body["message"])

	status, _ = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(http.MethodGet, "/api/v1/auth/me", env.adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["role"])
}

func TestRoleBasedAccess(t *testing.T) {
	env := setupApp(t)
	customerID, customerToken := env.signUpCustomer("reader")

	status, _ := env.do(http.MethodGet, "/api/v1/user", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodPost, "/api/v1/book", customerToken, map[string]any{"title": "Nope", "isbn": "1"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodGet, fmt.Sprintf("/api/v1/user/%d", customerID), customerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodGet, "/api/v1/user/1", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodGet, "/api/v1/user/abc", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// admins can read but not edit other accounts
	status, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/user/%d", customerID), env.adminToken, map[string]string{"first_name": "X"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(http.MethodPatch, fmt.Sprintf("/api/v1/user/%d", customerID), customerToken, map[string]string{"first_name": "Rita"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Rita", body["first_name"])

	// wallet is admin-only
	status, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/profile/customer/%d", customerID), customerToken, map[string]any{"wallet_money": 1000})
	assert.Equal(t, http.StatusForbidden, status)
	status, body = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/profile/customer/%d", customerID), env.adminToken, map[string]any{
		"wallet_money": 1000, "subscription_model": "premium", "subscription_end": "2026-01-01T00:00:00+03:30",
	})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "premium", body["subscription_model"])
	assert.Equal(t, "2026-01-01T00:00:00Z", body["subscription_end"])
}

func TestReserveForMissingBook(t *testing.T) {
	env := setupApp(t)
	customerID, token := env.signUpCustomer("reader")

	status, body := env.do(http.MethodPost, "/api/v1/reserve", token, map[string]any{
		"customer_id": customerID, "book_id": 999,
		"start": "2025-03-01T10:00:00", "end": "2025-03-01T12:00:00", "price": 10,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "book not found", body["message"])

	_, list := env.do(http.MethodGet, "/api/v1/reserve", env.adminToken, nil)
	assert.Empty(t, list["items"])
}

func TestDeleteMissingReserveSucceeds(t *testing.T) {
	env := setupApp(t)
	_, token := env.signUpCustomer("reader")

	status, body := env.do(http.MethodDelete, "/api/v1/reserve/12345", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Reserve deleted successfully", body["message"])
}

func TestCatalogAndReservationFlow(t *testing.T) {
	env := setupApp(t)
	authorID, authorToken := env.createAuthor("pratchett", "Terry")
	customerID, customerToken := env.signUpCustomer("reader")
	_, strangerToken := env.signUpCustomer("stranger")

	// an author creating a book is always linked as its only author
	status, book := env.do(http.MethodPost, "/api/v1/book", authorToken, map[string]any{
		"title": "Mort", "isbn": "9780552131063", "price": 100, "unit": 2,
		"author_ids": []int64{12345}, "blurbs": []string{},
	})
	require.Equal(t, http.StatusCreated, status, "%v", book)
	authors := book["authors"].([]any)
	require.Len(t, authors, 1)
	assert.Equal(t, float64(authorID), authors[0].(map[string]any)["author_id"])
	assert.Equal(t, "Terry", authors[0].(map[string]any)["blurb"])
	bookPath := fmt.Sprintf("/api/v1/book/%v", book["id"])

	// duplicate ISBN
	status, _ = env.do(http.MethodPost, "/api/v1/book", env.adminToken, map[string]any{
		"title": "Mort again", "isbn": "9780552131063",
	})
	assert.Equal(t, http.StatusConflict, status)

	// mismatched authors and blurbs from an admin
	status, _ = env.do(http.MethodPost, "/api/v1/book", env.adminToken, map[string]any{
		"title": "Pair", "isbn": "123", "author_ids": []int64{authorID}, "blurbs": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// an empty patch changes nothing
	_, before := env.do(http.MethodGet, bookPath, "", nil)
	status, after := env.do(http.MethodPatch, bookPath, authorToken, map[string]any{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, before, after)

	reserve := func(token string, start, end string) (int, map[string]any) {
		return env.do(http.MethodPost, "/api/v1/reserve", token, map[string]any{
			"customer_id": customerID, "book_id": book["id"], "start": start, "end": end, "price": 40,
		})
	}

	status, first := reserve(customerToken, "2025-03-01T10:00:00+03:30", "2025-03-01T12:00:00+03:30")
	require.Equal(t, http.StatusCreated, status, "%v", first)
	assert.Equal(t, "2025-03-01T10:00:00Z", first["start"])

	status, _ = reserve(customerToken, "2025-03-01T11:00:00", "2025-03-01T13:00:00")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = reserve(customerToken, "2025-03-01T12:00:00", "2025-03-01T10:00:00")
	assert.Equal(t, http.StatusBadRequest, status)

	status, second := reserve(customerToken, "2025-03-01T12:00:00", "2025-03-01T13:00:00")
	require.Equal(t, http.StatusCreated, status, "%v", second)

	status, _ = reserve(strangerToken, "2025-04-01T12:00:00", "2025-04-01T13:00:00")
	assert.Equal(t, http.StatusForbidden, status)

	firstPath := fmt.Sprintf("/api/v1/reserve/%v", first["id"])
	status, _ = env.do(http.MethodGet, firstPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(http.MethodDelete, firstPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// moving the first reservation onto the second one clashes, extending it within its own slot does not
	status, _ = env.do(http.MethodPatch, firstPath, customerToken, map[string]any{"end": "2025-03-01T12:30:00"})
	assert.Equal(t, http.StatusConflict, status)
	status, patched := env.do(http.MethodPatch, firstPath, customerToken, map[string]any{"start": "2025-03-01T09:00:00"})
	require.Equal(t, http.StatusOK, status, "%v", patched)
	assert.Equal(t, "2025-03-01T09:00:00Z", patched["start"])

	_, mine := env.do(http.MethodGet, "/api/v1/reserve", customerToken, nil)
	assert.Len(t, mine["items"], 2)
	_, theirs := env.do(http.MethodGet, fmt.Sprintf("/api/v1/reserve?customer_id=%d", customerID), strangerToken, nil)
	assert.Empty(t, theirs["items"])

	// referenced records cannot be removed
	status, _ = env.do(http.MethodDelete, bookPath, env.adminToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/profile/customer/%d", customerID), customerToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	for _, r := range []map[string]any{first, second} {
		status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/reserve/%v", r["id"]), customerToken, nil)
		assert.Equal(t, http.StatusOK, status)
	}

	status, _ = env.do(http.MethodDelete, bookPath, authorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(http.MethodDelete, bookPath, env.adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(http.MethodGet, bookPath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/profile/customer/%d", customerID), customerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(http.MethodGet, fmt.Sprintf("/api/v1/profile/customer/%d", customerID), env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
