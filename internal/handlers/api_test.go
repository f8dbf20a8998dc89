package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/config"
	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository/repositorytest"
	"github.com/fathima-sithara/contacts-service/internal/server"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/token"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordMailer) SendResetEmail(_ context.Context, toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	return nil
}

type noopPhotoStore struct{}

func (noopPhotoStore) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "https://photos.example.com/" + key, nil
}

type apiFixture struct {
	app    *fiber.App
	users  *repositorytest.UserRepo
	mailer *recordMailer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := &config.Config{}
	users := repositorytest.NewUserRepo()
	contacts := repositorytest.NewContactRepo()
	mail := &recordMailer{}
	tokens := token.NewManager("test-secret", 24*time.Hour, time.Hour)
	logger := zap.NewNop()

	authSvc := services.NewAuthService(users, tokens, mail, "http://localhost:3000", 4, logger)
	contactSvc := services.NewContactService(contacts, users, noopPhotoStore{}, logger)
	userSvc := services.NewUserService(users)

	auth := middleware.NewAuth(tokens, users)
	app := server.New(cfg,
		auth,
		handlers.NewAuthHandler(authSvc),
		handlers.NewContactHandler(contactSvc),
		handlers.NewUserHandler(userSvc),
		logger,
	)
	return &apiFixture{app: app, users: users, mailer: mail}
}

// seedActiveUser inserts an already-activated account directly, bypassing the
// signup + activation steps the test is not about.
func (f *apiFixture) seedActiveUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Seed",
		LastName:     "User",
		Role:         role,
		Status:       models.StatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *apiFixture) doJSON(t *testing.T, method, path, bearer string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (f *apiFixture) doForm(t *testing.T, method, path, bearer string, form url.Values) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestSignupActivationLoginScenario(t *testing.T) {
	f := newAPIFixture(t)
	f.seedActiveUser(t, "admin@x.com", "adminpass123", models.RoleAdmin)

	resp, _ := f.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"email": "a@x.com", "password": "password1", "firstName": "Ada", "lastName": "Lovelace",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"email": "A@X.COM", "password": "password2", "firstName": "Ada", "lastName": "Again",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// correct password, inactive account
	resp, _ = f.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "a@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// admin activates through the users surface
	adminTok := f.login(t, "admin@x.com", "adminpass123")
	resp, list := f.doJSON(t, http.MethodGet, "/api/v1/users/email?email=a@x.com", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	userID, _ := list["id"].(string)
	require.NotEmpty(t, userID)

	resp, _ = f.doJSON(t, http.MethodPut, "/api/v1/users/"+userID, adminTok, fiber.Map{"status": "active"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "a@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "a@x.com", user["email"])
	_, hasHash := user["password_hash"]
	require.False(t, hasHash, "password hash must never be serialized")

	resp, me := f.doJSON(t, http.MethodGet, "/api/v1/auth/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, me["user"])
}

func TestContactSharingScenario(t *testing.T) {
	f := newAPIFixture(t)
	f.seedActiveUser(t, "owner@x.com", "ownerpass123", models.RoleUser)
	b := f.seedActiveUser(t, "b@x.com", "sharepass123", models.RoleUser)
	ownerTok := f.login(t, "owner@x.com", "ownerpass123")
	bTok := f.login(t, "b@x.com", "sharepass123")

	resp, created := f.doForm(t, http.MethodPost, "/api/v1/contacts/", ownerTok, url.Values{
		"firstName":     {"John"},
		"lastName":      {"Doe"},
		"contactNumber": {"+15550001"},
		"emailAddress":  {"john@doe.com"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	contactID, _ := created["id"].(string)
	require.NotEmpty(t, contactID)

	// invisible to b until shared
	resp, _ = f.doJSON(t, http.MethodGet, "/api/v1/contacts/"+contactID, bTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, shared := f.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/contacts/%s/share", contactID), ownerTok, fiber.Map{"email": "b@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries, _ := shared["sharedWith"].([]interface{})
	require.Len(t, entries, 1)
	entry, _ := entries[0].(map[string]interface{})
	require.Equal(t, b.ID.Hex(), entry["userId"])
	require.Equal(t, "b@x.com", entry["email"])

	// second share with the same email conflicts
	resp, _ = f.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/contacts/%s/share", contactID), ownerTok, fiber.Map{"email": "B@x.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// b can now read but not mutate
	resp, _ = f.doJSON(t, http.MethodGet, "/api/v1/contacts/"+contactID, bTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.doJSON(t, http.MethodPut, "/api/v1/contacts/"+contactID, bTok, fiber.Map{"firstName": "Hijack"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = f.doJSON(t, http.MethodDelete, "/api/v1/contacts/"+contactID, bTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// sharing with an unregistered address fails
	resp, _ = f.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/contacts/%s/share", contactID), ownerTok, fiber.Map{"email": "ghost@x.com"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// unshare revokes b's access
	resp, _ = f.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/contacts/%s/share", contactID), ownerTok, fiber.Map{"email": "b@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.doJSON(t, http.MethodGet, "/api/v1/contacts/"+contactID, bTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserRoutesRoleEnforcement(t *testing.T) {
	f := newAPIFixture(t)
	plain := f.seedActiveUser(t, "plain@x.com", "plainpass123", models.RoleUser)
	f.seedActiveUser(t, "admin@x.com", "adminpass123", models.RoleAdmin)
	f.seedActiveUser(t, "root@x.com", "rootpass1234", models.RoleSuperAdmin)

	plainTok := f.login(t, "plain@x.com", "plainpass123")
	adminTok := f.login(t, "admin@x.com", "adminpass123")
	rootTok := f.login(t, "root@x.com", "rootpass1234")

	resp, _ := f.doJSON(t, http.MethodGet, "/api/v1/users/", plainTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodGet, "/api/v1/users/", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// deleting accounts is reserved for the top tier
	resp, _ = f.doJSON(t, http.MethodDelete, "/api/v1/users/"+plain.ID.Hex(), adminTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodDelete, "/api/v1/users/"+plain.ID.Hex(), rootTok, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestForgotPasswordIndistinguishableAck(t *testing.T) {
	f := newAPIFixture(t)
	f.seedActiveUser(t, "a@x.com", "password1234", models.RoleUser)

	resp, known := f.doJSON(t, http.MethodPost, "/api/v1/auth/forgot-password", "", fiber.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, unknown := f.doJSON(t, http.MethodPost, "/api/v1/auth/forgot-password", "", fiber.Map{"email": "ghost@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, known["message"], unknown["message"])

	require.Eventually(t, func() bool {
		f.mailer.mu.Lock()
		defer f.mailer.mu.Unlock()
		return len(f.mailer.sent) == 1 && f.mailer.sent[0] == "a@x.com"
	}, time.Second, 10*time.Millisecond)
}

func TestMalformedContactIDIsNotFound(t *testing.T) {
	f := newAPIFixture(t)
	f.seedActiveUser(t, "a@x.com", "password1234", models.RoleUser)
	tok := f.login(t, "a@x.com", "password1234")

	resp, _ := f.doJSON(t, http.MethodGet, "/api/v1/contacts/not-an-id", tok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
