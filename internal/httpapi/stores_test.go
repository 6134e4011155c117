package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picknship/backend/internal/repo"
)

func TestListStores(t *testing.T) {
	t.Parallel()

	stores := newFakeStores(
		repo.Store{StoreID: "999", Name: "Tienda Uno", AccessToken: "secret-token"},
	)
	h := testAPI(Deps{Stores: stores})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stores []repo.Store `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stores, 1)
	require.Equal(t, "Tienda Uno", body.Stores[0].Name)

	// The access token must never serialize.
	require.NotContains(t, rec.Body.String(), "secret-token")
}

func TestListStores_EmptyIsList(t *testing.T) {
	t.Parallel()

	h := testAPI(Deps{Stores: newFakeStores()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"stores": []}`, rec.Body.String())
}

func TestListStores_Error500(t *testing.T) {
	t.Parallel()

	stores := newFakeStores()
	stores.listErr = repo.ErrStorageUnavailable
	h := testAPI(Deps{Stores: stores})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListOrders_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{snaps: []repo.Snapshot{apiSnapshot()}}
	h := testAPI(Deps{Orders: orders, APIKey: "k-secret"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Same length as the configured key, still rejected.
	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer k-secreX")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer k-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Orders []repo.Snapshot `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Orders, 1)
	require.Equal(t, "1234", body.Orders[0].OrderID)
}

func TestListOrders_NoConfiguredKey_AlwaysRejects(t *testing.T) {
	t.Parallel()

	h := testAPI(Deps{Orders: &fakeOrders{}, APIKey: ""})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "an unset key must not open the endpoint")
}

func TestListOrders_Error500(t *testing.T) {
	t.Parallel()

	h := testAPI(Deps{Orders: &fakeOrders{err: repo.ErrStorageUnavailable}, APIKey: "k"})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
