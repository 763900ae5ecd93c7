package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "productapi/internal/errors"
)

type userPayload struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age,omitempty" validate:"omitempty,gte=0"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, v.ValidateStruct(userPayload{Name: "ada"}))
	})

	t.Run("missing name", func(t *testing.T) {
		err := v.ValidateStruct(userPayload{})
		require.Error(t, err)

		apiErr, ok := err.(*apierrors.APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Name is required", apiErr.Message)

		fields, ok := apiErr.Details.([]apierrors.ValidationError)
		require.True(t, ok)
		require.Len(t, fields, 1)
		assert.Equal(t, "name", fields[0].Field)
	})

	t.Run("several failures keep the first message", func(t *testing.T) {
		err := v.ValidateStruct(userPayload{Age: -1})
		apiErr, ok := err.(*apierrors.APIError)
		require.True(t, ok)
		assert.Equal(t, "Name is required", apiErr.Message)
		assert.Len(t, apiErr.Details, 2)
	})

	t.Run("shared error is not mutated", func(t *testing.T) {
		_ = v.ValidateStruct(userPayload{})
		assert.Equal(t, "Request validation failed", apierrors.ErrValidationFailed.Message)
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Name", capitalize("name"))
	assert.Equal(t, "", capitalize(""))
}
