package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangebank/backend/internal/models"
	"github.com/orangebank/backend/internal/store"
)

func setAuthTestConfig(t *testing.T) {
	t.Helper()
	viper.Set("jwt.secret_key", "test-secret")
	viper.Set("jwt.expiry_hours", 24)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 1024)
	viper.Set("argon2.threads", 1)
	viper.Set("argon2.key_length", 32)
	viper.Set("argon2.salt_length", 16)
}

func newAuthRouter(st store.Store) http.Handler {
	as := NewAuthService(st, nil)
	r := chi.NewRouter()
	r.Post("/auth/register", as.Register)
	r.Post("/auth/login", as.Login)
	r.Post("/auth/logout", as.Logout)
	return r
}

const registerBody = `{
	"name": "Alice Smith",
	"email": "Alice@Test.com",
	"password": "secret123",
	"cpf": "123.456.789-01",
	"birthDate": "1990-05-20"
}`

func TestAuthService_Register(t *testing.T) {
	setAuthTestConfig(t)

	t.Run("creates the user with an account pair", func(t *testing.T) {
		st := store.NewMemoryStore()
		router := newAuthRouter(st)

		rec := doJSON(t, router, http.MethodPost, "/auth/register", registerBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "alice@test.com", resp.User.Email)
		assert.Equal(t, "12345678901", resp.User.CPF)

		require.Len(t, resp.Accounts, 2)
		assert.Equal(t, models.CurrentAccount, resp.Accounts[0].Type)
		assert.Equal(t, models.InvestmentAccount, resp.Accounts[1].Type)
		for _, account := range resp.Accounts {
			assert.True(t, account.Active)
			assert.Equal(t, 0.0, account.Balance)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		st := store.NewMemoryStore()
		router := newAuthRouter(st)

		rec := doJSON(t, router, http.MethodPost, "/auth/register", registerBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/auth/register", registerBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email Already Exists", decodeErrorResponse(t, rec).Error)
	})

	t.Run("validation rejects a short password", func(t *testing.T) {
		st := store.NewMemoryStore()
		router := newAuthRouter(st)

		body := strings.Replace(registerBody, "secret123", "nope", 1)
		rec := doJSON(t, router, http.MethodPost, "/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeErrorResponse(t, rec).Details, "Password")
	})
}

func TestAuthService_Login(t *testing.T) {
	setAuthTestConfig(t)
	st := store.NewMemoryStore()
	router := newAuthRouter(st)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("valid credentials", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email": "ALICE@test.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
		assert.Empty(t, resp.Accounts)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email": "alice@test.com", "password": "wrongpass"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeErrorResponse(t, rec).Error)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email": "ghost@test.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	setAuthTestConfig(t)

	redisClient, mock := redismock.NewClientMock()
	as := NewAuthService(store.NewMemoryStore(), redisClient)

	token, err := generateJWT(1)
	require.NoError(t, err)

	mock.ExpectSet("blacklist:"+token, "1", 24*time.Hour).SetVal("OK")

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	as.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Logout_NoRedis(t *testing.T) {
	setAuthTestConfig(t)
	as := NewAuthService(store.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	as.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateJWT(t *testing.T) {
	setAuthTestConfig(t)

	tokenString, err := generateJWT(42)
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "orangebank-api", claims["iss"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp.Time, time.Minute)
}

func TestPasswordHashing(t *testing.T) {
	setAuthTestConfig(t)

	hash, err := hashPassword("secret123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$")

	assert.True(t, verifyPassword("secret123", hash))
	assert.False(t, verifyPassword("wrongpass", hash))
	assert.False(t, verifyPassword("secret123", "not-a-hash"))

	// salts differ between hashes of the same password
	other, err := hashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
	assert.True(t, verifyPassword("secret123", other))
}
