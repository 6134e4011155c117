// Package tiendanube is the client for the merchant platform: OAuth
// code exchange, canonical order fetch, and shipping-method
// provisioning.
package tiendanube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/picknship/backend/internal/repo"
	"github.com/shopspring/decimal"
)

const (
	defaultAuthBaseURL = "https://www.tiendanube.com"
	defaultAPIBaseURL  = "https://api.tiendanube.com"

	requestTimeout = 20 * time.Second

	oauthScope = "read_content,write_content,read_products,write_products," +
		"read_customers,write_customers,read_orders,write_orders,write_shipping"

	shippingMethodName = "Pick'NShip: vos elegís cuándo"
	shippingMethodDesc = "Coordiná día y horario exacto con el repartidor luego de la compra"
	shippingMethodFee  = 10000
)

type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UserAgent    string

	AuthBaseURL string
	APIBaseURL  string
	HTTPC       *http.Client
}

func New(clientID, clientSecret, redirectURI, contactEmail string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		UserAgent:    fmt.Sprintf("Pick'NShip (%s)", contactEmail),
		AuthBaseURL:  defaultAuthBaseURL,
		APIBaseURL:   defaultAPIBaseURL,
		HTTPC:        &http.Client{Timeout: requestTimeout},
	}
}

// AuthorizeURL is where the merchant is sent to approve the install.
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("scope", oauthScope)
	return c.AuthBaseURL + "/apps/authorize?" + q.Encode()
}

type Token struct {
	AccessToken string
	StoreID     string
	StoreName   string
}

// ExchangeCode trades an OAuth authorization code for an access token
// and the identity of the store that granted it.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Token, error) {
	payload := map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"grant_type":    "authorization_code",
		"code":          code,
		"redirect_uri":  c.RedirectURI,
	}

	var raw struct {
		AccessToken string      `json:"access_token"`
		UserID      json.Number `json:"user_id"`
		StoreID     json.Number `json:"store_id"`
		StoreName   string      `json:"store_name"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.AuthBaseURL+"/apps/authorize/token", "", payload, &raw); err != nil {
		return Token{}, fmt.Errorf("token exchange: %w", err)
	}

	storeID := raw.UserID.String()
	if storeID == "" {
		storeID = raw.StoreID.String()
	}
	if raw.AccessToken == "" || storeID == "" {
		return Token{}, fmt.Errorf("token exchange: response missing access_token or store id")
	}
	return Token{AccessToken: raw.AccessToken, StoreID: storeID, StoreName: raw.StoreName}, nil
}

type wireAddress struct {
	Address  string `json:"address"`
	Number   string `json:"number"`
	Floor    string `json:"floor"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country"`
}

type wireOrder struct {
	ID       json.Number `json:"id"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	Shipping        string          `json:"shipping"`
	ShippingOption  string          `json:"shipping_option"`
	ShippingAddress wireAddress     `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FetchOrder re-reads the canonical order from the platform and maps it
// into a snapshot. Webhook bodies only carry identifiers; this is the
// source of truth for everything else.
func (c *Client) FetchOrder(ctx context.Context, storeID, orderID, accessToken string) (repo.Snapshot, error) {
	var w wireOrder
	u := fmt.Sprintf("%s/v1/%s/orders/%s", c.APIBaseURL, storeID, orderID)
	if err := c.doJSON(ctx, http.MethodGet, u, accessToken, nil, &w); err != nil {
		return repo.Snapshot{}, fmt.Errorf("fetch order %s/%s: %w", storeID, orderID, err)
	}

	id := w.ID.String()
	if id == "" {
		id = orderID
	}
	return repo.Snapshot{
		OrderID:        id,
		StoreID:        storeID,
		CustomerName:   w.Customer.Name,
		CustomerEmail:  w.Customer.Email,
		CustomerPhone:  w.Customer.Phone,
		Total:          w.Total,
		Currency:       w.Currency,
		Status:         w.Status,
		ShippingMethod: w.Shipping,
		ShippingOption: w.ShippingOption,
		ShippingAddress: repo.Address{
			Street:     w.ShippingAddress.Address,
			Number:     w.ShippingAddress.Number,
			Floor:      w.ShippingAddress.Floor,
			Locality:   w.ShippingAddress.Locality,
			City:       w.ShippingAddress.City,
			Province:   w.ShippingAddress.Province,
			PostalCode: w.ShippingAddress.Zipcode,
			Country:    w.ShippingAddress.Country,
		},
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

// EnsureShippingMethod provisions the Pick'NShip shipping method in the
// store, restricted to the given zip codes. Idempotent: an existing
// method with the same name is left alone.
func (c *Client) EnsureShippingMethod(ctx context.Context, storeID, accessToken string, zipCodes []string) error {
	var existing []struct {
		Name string `json:"name"`
	}
	u := fmt.Sprintf("%s/v1/%s/shippings", c.APIBaseURL, storeID)
	if err := c.doJSON(ctx, http.MethodGet, u, accessToken, nil, &existing); err != nil {
		return fmt.Errorf("list shippings: %w", err)
	}
	for _, m := range existing {
		if m.Name == shippingMethodName {
			return nil
		}
	}

	payload := map[string]any{
		"name":          shippingMethodName,
		"price":         shippingMethodFee,
		"enabled":       true,
		"description":   shippingMethodDesc,
		"delivery_time": nil,
		"zip_codes":     zipCodes,
	}
	if err := c.doJSON(ctx, http.MethodPost, u, accessToken, payload, nil); err != nil {
		return fmt.Errorf("create shipping method: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, u, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	if accessToken != "" {
		req.Header.Set("Authentication", "bearer "+accessToken)
	}

	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
