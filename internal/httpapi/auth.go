package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/respond"
)

func (a *API) handleAuthInstall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respond.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	http.Redirect(w, r, a.d.Platform.AuthorizeURL(), http.StatusTemporaryRedirect)
}

// handleAuthCallback finishes the OAuth install: exchange the code,
// persist the store (last-write-wins on re-install), then best-effort
// announce it and provision the shipping method.
func (a *API) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}

	q := r.URL.Query()
	if oauthErr := q.Get("error"); oauthErr != "" {
		respond.ErrorWithID(w, http.StatusBadRequest, "oauth_error", oauthErr, reqID)
		return
	}
	code := q.Get("code")
	if code == "" {
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "missing code parameter", reqID)
		return
	}

	tok, err := a.d.Platform.ExchangeCode(r.Context(), code)
	if err != nil {
		a.d.Logf("auth exchange: %v", err)
		respond.BadGateway(w, "token exchange failed")
		return
	}

	store := repo.Store{
		StoreID:     tok.StoreID,
		Name:        tok.StoreName,
		AccessToken: tok.AccessToken,
		InstalledAt: time.Now().UTC(),
	}
	if err := a.d.Stores.UpsertStore(r.Context(), store); err != nil {
		a.d.Logf("auth save store %s: %v", tok.StoreID, err)
		respond.Internal(w, "store save failed")
		return
	}
	a.d.Cache.Set(store.StoreID, store)

	a.d.Notify.StoreInstalled(r.Context(), store)

	if err := a.d.Platform.EnsureShippingMethod(r.Context(), store.StoreID, store.AccessToken, a.d.ShippingZips); err != nil {
		// Recoverable later through the retry endpoint.
		a.d.Logf("auth shipping method %s: %v", store.StoreID, err)
	} else if err := a.d.Stores.MarkShippingConfigured(r.Context(), store.StoreID); err != nil {
		a.d.Logf("auth mark shipping %s: %v", store.StoreID, err)
	} else {
		store.ShippingConfigured = true
		a.d.Cache.Set(store.StoreID, store)
	}

	http.Redirect(w, r, "/success?store_id="+url.QueryEscape(store.StoreID), http.StatusSeeOther)
}

// handleShippingRetry re-provisions the shipping method for a store
// whose install-time provisioning failed.
func (a *API) handleShippingRetry(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}

	storeID := strings.TrimPrefix(r.URL.Path, "/auth/shipping/retry/")
	if i := strings.IndexByte(storeID, '/'); i >= 0 {
		storeID = storeID[:i]
	}
	if storeID == "" {
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "missing store_id", reqID)
		return
	}

	store, err := a.lookupStore(r.Context(), storeID)
	switch {
	case errors.Is(err, repo.ErrStoreNotFound), errors.Is(err, repo.ErrBadKey):
		respond.ErrorWithID(w, http.StatusNotFound, "not_found", "store not found", reqID)
		return
	case err != nil:
		a.d.Logf("shipping retry lookup %s: %v", storeID, err)
		respond.Internal(w, "store lookup failed")
		return
	}

	if err := a.d.Platform.EnsureShippingMethod(r.Context(), storeID, store.AccessToken, a.d.ShippingZips); err != nil {
		a.d.Logf("shipping retry %s: %v", storeID, err)
		respond.BadGateway(w, "shipping method creation failed")
		return
	}
	if err := a.d.Stores.MarkShippingConfigured(r.Context(), storeID); err != nil {
		a.d.Logf("shipping retry mark %s: %v", storeID, err)
	} else {
		store.ShippingConfigured = true
		a.d.Cache.Set(storeID, store)
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "shipping method created"})
}
