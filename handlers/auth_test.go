package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise-go-be/auth"
	"budgetwise-go-be/models"
	"budgetwise-go-be/repositories"
)

// fakeUserStore keeps users in memory, mirroring the unique-index behavior
// of the real store.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	taken, _ := f.Exists(context.Background(), user.Username, user.Email)
	if taken {
		return repositories.ErrDuplicateUser
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStore) Exists(_ context.Context, username, email string) (bool, error) {
	if _, ok := f.users[username]; ok {
		return true, nil
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func newAuthTestApp(store UserStore) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	h := NewAuthHandler(store, "test-secret", 24)
	app.Post("/signup", h.Signup)
	app.Post("/login", h.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSignupThenLogin(t *testing.T) {
	store := newFakeUserStore()
	app := newAuthTestApp(store)

	resp := postJSON(t, app, "/signup", fiber.Map{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@example.com", created.Email, "email is lowercased")

	resp = postJSON(t, app, "/login", fiber.Map{
		"username": "alice",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string    `json:"access_token"`
		UserID      uuid.UUID `json:"user_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.Equal(t, created.ID, login.UserID)

	// The issued token verifies and carries the signed-up user's id.
	got, err := auth.ExtractUserID(login.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got)
}

func TestSignupDuplicateUser(t *testing.T) {
	store := newFakeUserStore()
	app := newAuthTestApp(store)

	resp := postJSON(t, app, "/signup", fiber.Map{
		"username": "alice", "email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same username again.
	resp = postJSON(t, app, "/signup", fiber.Map{
		"username": "alice", "email": "other@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Same email, different username.
	resp = postJSON(t, app, "/signup", fiber.Map{
		"username": "alice2", "email": "alice@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app := newAuthTestApp(newFakeUserStore())

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing username", fiber.Map{"email": "a@b.com", "password": "hunter22"}},
		{"missing email", fiber.Map{"username": "alice", "password": "hunter22"}},
		{"missing password", fiber.Map{"username": "alice", "email": "a@b.com"}},
		{"short password", fiber.Map{"username": "alice", "email": "a@b.com", "password": "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, app, "/signup", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeUserStore()
	app := newAuthTestApp(store)

	resp := postJSON(t, app, "/signup", fiber.Map{
		"username": "alice", "email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Wrong password.
	resp = postJSON(t, app, "/login", fiber.Map{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown user gets the same answer as a bad password.
	resp = postJSON(t, app, "/login", fiber.Map{"username": "nobody", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
