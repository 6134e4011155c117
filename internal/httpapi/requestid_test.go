package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picknship/backend/internal/repo"
)

func TestWithRequestID_GeneratesWhenAbsent(t *testing.T) {
	t.Parallel()

	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	require.Len(t, seen, 32)
	require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestWithRequestID_PreservesIncoming(t *testing.T) {
	t.Parallel()

	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "client-id-1", seen)
	require.Equal(t, "client-id-1", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_EmptyWithoutMiddleware(t *testing.T) {
	t.Parallel()

	require.Empty(t, RequestID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSuccessPage(t *testing.T) {
	t.Parallel()

	stores := newFakeStores(
		repo.Store{StoreID: "999", Domain: "tiendauno.mitiendanube.com"},
	)
	h := testAPI(Deps{Stores: stores})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/success?store_id=999", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Pick'NShip conectado")
	require.Contains(t, rec.Body.String(), "https://tiendauno.mitiendanube.com")
}

func TestSuccessPage_UnknownStoreStillRenders(t *testing.T) {
	t.Parallel()

	h := testAPI(Deps{Stores: newFakeStores()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/success?store_id=12345", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Pick'NShip conectado")
	require.NotContains(t, rec.Body.String(), "Volver a la tienda")
}
