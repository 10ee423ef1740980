package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/micahlt/scratchverifier/internal/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]int64{"session": 42})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"session": 42}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Run("app error carries its code and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.NotFound("Client"))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.ErrCodeNotFound, resp.Code)
		assert.Equal(t, "Client not found", resp.Error)
	})

	t.Run("external failures surface as 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.External("scratch comment feed", errors.New("status 503")))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("plain errors become opaque 500s", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("sql: database is locked"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
		assert.NotContains(t, resp.Error, "sql:", "internal detail must not leak")
	})
}

func TestStatusFromCode(t *testing.T) {
	cases := map[apperrors.ErrorCode]int{
		apperrors.ErrCodeValidation:   http.StatusBadRequest,
		apperrors.ErrCodeUnauthorized: http.StatusUnauthorized,
		apperrors.ErrCodeForbidden:    http.StatusForbidden,
		apperrors.ErrCodeNotFound:     http.StatusNotFound,
		apperrors.ErrCodeExternal:     http.StatusNotFound,
		apperrors.ErrCodeConflict:     http.StatusConflict,
		apperrors.ErrCodeInternal:     http.StatusInternalServerError,
		apperrors.ErrCodeDatabase:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFromCode(code), "code %s", code)
	}

	assert.Equal(t, http.StatusInternalServerError, StatusFromCode("BOGUS"))
}
