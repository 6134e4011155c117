package httpapi

import (
	"net/http"

	"github.com/picknship/backend/internal/respond"
)

func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			respond.JSON(w, http.StatusOK, map[string]string{"message": "Pick'NShip backend running"})
			return
		}
		reqID := RequestID(r)
		respond.ErrorWithID(w, http.StatusNotFound, "not_found", "not found", reqID)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := RequestID(r)

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
			return
		}

		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"stores_size": a.d.Cache.Len(),
			"version":     a.d.Version,
			"request_id":  reqID,
		})
	})

	mux.HandleFunc("/webhook/orders", a.handleOrderWebhook)
	mux.HandleFunc("/rates", a.handleRates)

	mux.HandleFunc("/auth/install", a.handleAuthInstall)
	mux.HandleFunc("/auth/callback", a.handleAuthCallback)
	mux.HandleFunc("/auth/shipping/retry/", a.handleShippingRetry)

	mux.HandleFunc("/stores", a.handleListStores)
	mux.HandleFunc("/orders", a.handleListOrders)
	mux.HandleFunc("/success", a.handleSuccess)

	return WithRequestID(mux)
}
