package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("error string includes code and message", func(t *testing.T) {
		err := NotFound("Client")
		assert.Equal(t, "NOT_FOUND: Client not found", err.Error())
	})

	t.Run("cause is included and unwrappable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := External("scratch users api", cause)
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("WithCause attaches after construction", func(t *testing.T) {
		cause := errors.New("boom")
		err := Internal("something broke").WithCause(cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestAsAppError(t *testing.T) {
	t.Run("finds an AppError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", Conflict("already exists"))

		appErr, ok := AsAppError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrCodeConflict, appErr.Code)
		assert.True(t, IsAppError(wrapped))
	})

	t.Run("plain errors are not AppErrors", func(t *testing.T) {
		_, ok := AsAppError(errors.New("plain"))
		assert.False(t, ok)
		assert.False(t, IsAppError(errors.New("plain")))
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeUnauthorized, GetCode(Unauthorized("no session")))
	assert.Equal(t, ErrCodeForbidden, GetCode(Forbidden("not yours")))
	assert.Equal(t, ErrCodeValidation, GetCode(ValidationError("bad username")))
	assert.Equal(t, ErrCodeDatabase, GetCode(Database(errors.New("locked"))))

	t.Run("unknown errors default to internal", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
	})
}
