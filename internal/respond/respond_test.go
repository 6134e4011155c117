package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad_request", "invalid json body")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error": "bad_request", "message": "invalid json body"}`, rec.Body.String())
}

func TestErrorWithID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrorWithID(rec, http.StatusNotFound, "not_found", "store not found", "rid-1")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t,
		`{"error": "not_found", "message": "store not found", "request_id": "rid-1"}`,
		rec.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NoContent(rec)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fn     func(http.ResponseWriter, string)
		status int
		code   string
	}{
		{"BadRequest", BadRequest, http.StatusBadRequest, "bad_request"},
		{"Unauthorized", Unauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", Forbidden, http.StatusForbidden, "forbidden"},
		{"NotFound", NotFound, http.StatusNotFound, "not_found"},
		{"Internal", Internal, http.StatusInternalServerError, "internal"},
		{"BadGateway", BadGateway, http.StatusBadGateway, "upstream_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.fn(rec, "msg")
			require.Equal(t, tt.status, rec.Code)
			require.Contains(t, rec.Body.String(), tt.code)
		})
	}
}
