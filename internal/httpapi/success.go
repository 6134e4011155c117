package httpapi

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/picknship/backend/internal/repo"
)

var successTmpl = template.Must(template.New("success").Parse(`<!doctype html>
<html lang="es">
<head><meta charset="utf-8"><title>Pick'NShip conectado</title></head>
<body>
  <h1>🎉 Pick'NShip conectado</h1>
  <p>La app quedó instalada correctamente.</p>
  {{if .StoreURL}}<p><a href="https://{{.StoreURL}}">Volver a la tienda</a></p>{{end}}
</body>
</html>
`))

// handleSuccess is the page the merchant lands on after the OAuth
// callback.
func (a *API) handleSuccess(w http.ResponseWriter, r *http.Request) {
	var storeURL string
	if storeID := r.URL.Query().Get("store_id"); storeID != "" {
		store, err := a.lookupStore(r.Context(), storeID)
		if err == nil {
			storeURL = store.Domain
		} else if !errors.Is(err, repo.ErrStoreNotFound) && !errors.Is(err, repo.ErrBadKey) {
			a.d.Logf("success page lookup %s: %v", storeID, err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = successTmpl.Execute(w, struct{ StoreURL string }{StoreURL: storeURL})
}
