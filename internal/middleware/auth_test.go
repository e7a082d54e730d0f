package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")

	validClaims := jwt.MapClaims{
		"user_id": 42,
		"iss":     "orangebank-api",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	newHandler := func(sawUserID *int) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := UserID(r.Context()); ok {
				*sawUserID = id
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid token passes with the user id in context", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", validClaims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 42, sawUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, sawUserID)
	})

	t.Run("malformed header", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", validClaims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		expired := jwt.MapClaims{
			"user_id": 42,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", expired))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		var sawUserID int
		handler := AuthMiddleware(nil)(newHandler(&sawUserID))

		anonymous := jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", anonymous))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blacklisted token is revoked", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		token := signTestToken(t, "test-secret", validClaims)
		mock.ExpectExists("blacklist:" + token).SetVal(1)

		var sawUserID int
		handler := AuthMiddleware(redisClient)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has been revoked")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("token absent from the blacklist passes", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		token := signTestToken(t, "test-secret", validClaims)
		mock.ExpectExists("blacklist:" + token).SetVal(0)

		var sawUserID int
		handler := AuthMiddleware(redisClient)(newHandler(&sawUserID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 42, sawUserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
