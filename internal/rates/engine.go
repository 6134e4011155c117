package rates

import (
	"context"
	"fmt"

	"github.com/picknship/backend/internal/repo"
)

const (
	quoteName = "Pick'NShip: coordiná día y horario"
	quoteCode = "picknship_dynamic"

	defaultCurrency = "ARS"
)

// Quote is a single checkout shipping option in the shape the platform
// consumes. The engine returns zero or one per request.
type Quote struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Price         int64  `json:"price"`
	PriceMerchant int64  `json:"price_merchant"`
	Currency      string `json:"currency"`
	Type          string `json:"type"`
	PhoneRequired bool   `json:"phone_required"`
	IDRequired    bool   `json:"id_required"`
	AcceptsCOD    bool   `json:"accepts_cod"`
	Reference     string `json:"reference"`
}

type Request struct {
	Origin      repo.Address
	Destination repo.Address
	Currency    string
}

// DistanceProvider estimates the linear-path distance between two
// formatted address strings, in kilometers. Any error means "unknown".
type DistanceProvider interface {
	DistanceKM(ctx context.Context, origin, destination string) (float64, error)
}

type Engine struct {
	distance DistanceProvider
	tiers    []Tier
	zone     Zone
	logf     func(string, ...any)
}

func NewEngine(distance DistanceProvider, tiers []Tier, zone Zone, logf func(string, ...any)) *Engine {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Engine{distance: distance, tiers: tiers, zone: zone, logf: logf}
}

// Quote prices a delivery by geodesic distance when both addresses
// resolve, by postal-code zone membership otherwise. An empty slice is
// a valid answer and means "do not offer this option"; the engine never
// returns an error to checkout.
func (e *Engine) Quote(ctx context.Context, req Request) []Quote {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	if km, ok := e.lookupDistance(ctx, req); ok {
		e.logf("[RATES] distance=%.3fkm zip=%s", km, req.Destination.PostalCode)
		price, ref, ok := e.priceFor(km)
		if !ok {
			return []Quote{}
		}
		return []Quote{e.quote(price, currency, ref)}
	}

	// Distance unknown: degrade to the postal-code zone check at the
	// top tier price.
	if !e.zone.Contains(req.Destination.PostalCode) {
		return []Quote{}
	}
	e.logf("[RATES] distance unknown, zone fallback zip=%s", req.Destination.PostalCode)
	return []Quote{e.quote(e.tiers[len(e.tiers)-1].Price, currency, "zip")}
}

func (e *Engine) lookupDistance(ctx context.Context, req Request) (float64, bool) {
	if e.distance == nil {
		return 0, false
	}
	origin := req.Origin.Format()
	destination := req.Destination.Format()
	if origin == "" || destination == "" {
		return 0, false
	}
	km, err := e.distance.DistanceKM(ctx, origin, destination)
	if err != nil {
		e.logf("[RATES] distance lookup failed: %v", err)
		return 0, false
	}
	return km, true
}

// priceFor maps a distance to its tier. Lower bounds are inclusive,
// upper bounds exclusive except for the last tier.
func (e *Engine) priceFor(km float64) (int64, string, bool) {
	for i, t := range e.tiers {
		last := i == len(e.tiers)-1
		if km < t.MaxKM || (last && km == t.MaxKM) {
			return t.Price, e.tierRef(i), true
		}
	}
	return 0, "", false
}

func (e *Engine) tierRef(i int) string {
	if i == 0 {
		return fmt.Sprintf("lt_%g", e.tiers[0].MaxKM)
	}
	return fmt.Sprintf("%g_%g", e.tiers[i-1].MaxKM, e.tiers[i].MaxKM)
}

func (e *Engine) quote(price int64, currency, ref string) Quote {
	return Quote{
		Name:          quoteName,
		Code:          quoteCode,
		Price:         price,
		PriceMerchant: price,
		Currency:      currency,
		Type:          "ship",
		PhoneRequired: true,
		IDRequired:    false,
		AcceptsCOD:    false,
		Reference:     "picknship_rate_" + ref,
	}
}
