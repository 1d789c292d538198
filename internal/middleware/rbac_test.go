package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbridge/gigbridge/internal/user"
)

func runRBAC(t *testing.T, role string, allowed ...user.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	h := RequireRoles(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRoles(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		rec := runRBAC(t, "client", user.RoleClient)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		rec := runRBAC(t, "admin", user.RoleClient, user.RoleAdmin)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role denied", func(t *testing.T) {
		rec := runRBAC(t, "freelancer", user.RoleClient)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role denied", func(t *testing.T) {
		rec := runRBAC(t, "", user.RoleClient)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown role string denied", func(t *testing.T) {
		rec := runRBAC(t, "superuser", user.RoleClient, user.RoleFreelancer, user.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
