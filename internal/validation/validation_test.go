package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbridge/gigbridge/internal/apperr"
)

type signupPayload struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=client freelancer"`
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("valid struct passes", func(t *testing.T) {
		err := v.Validate(signupPayload{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "longenough",
			Role:     "client",
		})
		assert.NoError(t, err)
	})

	t.Run("failures become field errors", func(t *testing.T) {
		err := v.Validate(signupPayload{
			Name:     "",
			Email:    "not-an-email",
			Password: "short",
			Role:     "admin",
		})
		require.Error(t, err)

		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Equal(t, "this field is required", appErr.Fields["name"])
		assert.Equal(t, "must be a valid email address", appErr.Fields["email"])
		assert.Equal(t, "must be at least 8", appErr.Fields["password"])
		assert.Equal(t, "must be one of: client freelancer", appErr.Fields["role"])
	})
}
