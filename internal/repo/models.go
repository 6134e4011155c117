package repo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the last-known state of an order as reported by the
// platform, keyed by (order_id, store_id).
type Snapshot struct {
	OrderID         string          `json:"order_id"`
	StoreID         string          `json:"store_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingOption  string          `json:"shipping_option"`
	ShippingAddress Address         `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Address struct {
	Street     string `json:"address"`
	Number     string `json:"number"`
	Floor      string `json:"floor"`
	Locality   string `json:"locality"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"zipcode"`
	Country    string `json:"country"`
}

// Format joins the non-empty address parts into a single geocodable line.
func (a Address) Format() string {
	parts := make([]string, 0, 8)
	for _, p := range []string{
		a.Street, a.Number, a.Floor, a.Locality,
		a.City, a.Province, a.PostalCode, a.Country,
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Store struct {
	StoreID            string    `json:"store_id"`
	Name               string    `json:"name"`
	Domain             string    `json:"domain"`
	Email              string    `json:"email"`
	AccessToken        string    `json:"-"`
	InstalledAt        time.Time `json:"installed_at"`
	ShippingConfigured bool      `json:"shipping_configured"`
}
