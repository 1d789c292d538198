package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTMiddleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	t.Run("valid token passes and sets context", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"role":    "client",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		rec, c := runJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-1", c.Get("user_id"))
		assert.Equal(t, "client", c.Get("role"))
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec, _ := runJWT(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		rec, _ := runJWT(t, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, "other-secret")

		rec, _ := runJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		rec, _ := runJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without user_id rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"role": "client",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		rec, _ := runJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func runOptionalJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := OptionalJWT(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestOptionalJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	t.Run("valid token identifies the caller", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"role":    "client",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		rec, c := runOptionalJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-1", c.Get("user_id"))
		assert.Equal(t, "client", c.Get("role"))
	})

	t.Run("no header passes through anonymously", func(t *testing.T) {
		rec, c := runOptionalJWT(t, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})

	t.Run("garbage token passes through anonymously", func(t *testing.T) {
		rec, c := runOptionalJWT(t, "Bearer not.a.token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})

	t.Run("expired token passes through anonymously", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		rec, c := runOptionalJWT(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})
}
