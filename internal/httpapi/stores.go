package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/respond"
)

const snapshotListLimit = 100

func (a *API) handleListStores(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}

	stores, err := a.d.Stores.ListStores(r.Context())
	if err != nil {
		a.d.Logf("list stores: %v", err)
		respond.Internal(w, "store list failed")
		return
	}
	if stores == nil {
		stores = []repo.Store{}
	}
	respond.JSON(w, http.StatusOK, map[string][]repo.Store{"stores": stores})
}

// handleListOrders is API-key protected: it exposes customer data.
func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}
	if !a.authorized(r) {
		respond.ErrorWithID(w, http.StatusUnauthorized, "unauthorized", "missing or invalid api key", reqID)
		return
	}

	orders, err := a.d.Orders.ListRecentSnapshots(r.Context(), snapshotListLimit)
	if err != nil {
		a.d.Logf("list orders: %v", err)
		respond.Internal(w, "order list failed")
		return
	}
	if orders == nil {
		orders = []repo.Snapshot{}
	}
	respond.JSON(w, http.StatusOK, map[string][]repo.Snapshot{"orders": orders})
}

func (a *API) authorized(r *http.Request) bool {
	if a.d.APIKey == "" {
		return false
	}
	scheme, key, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(a.d.APIKey)) == 1
}
