package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/picknship/backend/internal/rates"
	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/respond"
)

// Checkout rate requests spell the postal code "postal_code", unlike
// order payloads which use "zipcode".
type ratesAddress struct {
	Address    string `json:"address"`
	Number     string `json:"number"`
	Floor      string `json:"floor"`
	Locality   string `json:"locality"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (ra ratesAddress) toAddress() repo.Address {
	return repo.Address{
		Street:     ra.Address,
		Number:     ra.Number,
		Floor:      ra.Floor,
		Locality:   ra.Locality,
		City:       ra.City,
		Province:   ra.Province,
		PostalCode: ra.PostalCode,
		Country:    ra.Country,
	}
}

type ratesPayload struct {
	Origin      ratesAddress `json:"origin"`
	Destination ratesAddress `json:"destination"`
	Currency    string       `json:"currency"`
}

// handleRates answers checkout rate requests. The response is always
// 200 with a rates list; an empty list means "do not offer this
// option", never an error.
func (a *API) handleRates(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.ErrorWithID(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", reqID)
		return
	}

	var p ratesPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.ErrorWithID(w, http.StatusBadRequest, "bad_request", "invalid json body", reqID)
		return
	}

	quotes := a.d.Quoter.Quote(r.Context(), rates.Request{
		Origin:      p.Origin.toAddress(),
		Destination: p.Destination.toAddress(),
		Currency:    p.Currency,
	})
	if quotes == nil {
		quotes = []rates.Quote{}
	}

	respond.JSON(w, http.StatusOK, map[string][]rates.Quote{"rates": quotes})
}
