package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/respond"
)

// flexID accepts the identifier either as a JSON number or a string;
// the platform sends numbers, replays and tests often send strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type webhookPayload struct {
	StoreID flexID `json:"store_id"`
	ID      flexID `json:"id"`
	OrderID flexID `json:"order_id"`
	Event   string `json:"event"`
}

// handleOrderWebhook ingests an order event: resolve the store, re-read
// the canonical order upstream, reconcile it against the stored
// snapshot, then notify best-effort. Failures before the write come
// back as retryable statuses so the platform re-delivers.
func (a *API) handleOrderWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}

	var p webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "invalid json body", reqID)
		return
	}

	storeID := string(p.StoreID)
	orderID := string(p.ID)
	if orderID == "" {
		orderID = string(p.OrderID)
	}
	if storeID == "" || orderID == "" {
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "store_id and order id are required", reqID)
		return
	}

	store, err := a.lookupStore(r.Context(), storeID)
	switch {
	case errors.Is(err, repo.ErrStoreNotFound), errors.Is(err, repo.ErrBadKey):
		a.d.Logf("webhook for unknown store %s (event=%s)", storeID, p.Event)
		respond.JSON(w, http.StatusOK, map[string]string{"status": "store_not_found"})
		return
	case err != nil:
		a.d.Logf("webhook store lookup %s: %v", storeID, err)
		respond.Internal(w, "store lookup failed")
		return
	}

	snap, err := a.d.Platform.FetchOrder(r.Context(), storeID, orderID, store.AccessToken)
	if err != nil {
		// The platform retries non-2xx deliveries; let it.
		a.d.Logf("webhook order fetch %s/%s: %v", storeID, orderID, err)
		respond.BadGateway(w, "order fetch failed")
		return
	}

	isNew, diff, err := a.d.Reconciler.Reconcile(r.Context(), snap)
	switch {
	case errors.Is(err, reconcile.ErrBadKey):
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "store_id and order id are required", reqID)
		return
	case err != nil:
		a.d.Logf("webhook reconcile %s/%s: %v", storeID, orderID, err)
		respond.Internal(w, "reconcile failed")
		return
	}

	a.d.Notify.OrderReconciled(r.Context(), isNew, snap, diff)
	a.d.Logf("webhook reconciled %s/%s (new=%t changes=%d)", storeID, orderID, isNew, len(diff))

	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
