package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/modules/access"
	accountmod "github.com/dmitrymomot/videovault/modules/account"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/svc/account"
)

type fixture struct {
	router http.Handler
	tokens *jwt.Service
	store  *account.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := account.NewMemoryStore()
	accounts := account.NewService(store, account.WithBcryptCost(bcrypt.MinCost))
	tokens, err := jwt.New(jwt.Config{SigningKey: "test-secret", Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)
	errHandler := handler.NewErrorHandler(logger.Discard())

	r := chi.NewRouter()
	r.Mount("/api", accountmod.Router(accountmod.RouterOptions{
		Password:           accountmod.NewPasswordService(accounts, tokens, errHandler),
		Profile:            accountmod.NewProfileService(accounts, errHandler),
		ProfileMiddlewares: []func(http.Handler) http.Handler{access.Authenticate(tokens)},
	}))

	return fixture{router: r, tokens: tokens, store: store}
}

func (f fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", `{"email":"Bob@Example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	reg := decode[accountmod.AuthResponse](t, rec)
	assert.NotEmpty(t, reg.Token)
	require.NotNil(t, reg.User)
	assert.Equal(t, "bob@example.com", reg.User.Email)
	assert.Equal(t, account.RoleUser, reg.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	claims, err := f.tokens.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID())

	rec = f.do(t, http.MethodPost, "/api/auth/login", `{"email":"bob@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[accountmod.AuthResponse](t, rec)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@example.com","password":"password1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", decode[handler.ErrorBody](t, rec).Error)

	rec = f.do(t, http.MethodPost, "/api/auth/register", `{"email":"not-an-email","password":"password1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode[handler.ErrorBody](t, rec).Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register", `{"email":"b@example.com","password":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register", `{"email":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", `{"email":"c@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, body := range []string{
		`{"email":"c@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"password1"}`,
	} {
		rec = f.do(t, http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decode[handler.ErrorBody](t, rec).Error)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register", `{"email":"d@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[accountmod.AuthResponse](t, rec)

	// Subscription changes written behind the token must be visible at once.
	require.NoError(t, f.store.SetSubscription(context.Background(), reg.User.ID, "sub_1", account.StatusActive))

	rec = f.do(t, http.MethodGet, "/api/user", "", reg.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[accountmod.ProfileResponse](t, rec)
	require.NotNil(t, me.User)
	assert.True(t, me.User.HasActiveSubscription())

	ghost, err := f.tokens.Issue("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	rec = f.do(t, http.MethodGet, "/api/user", "", ghost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
