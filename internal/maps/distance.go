// Package maps queries the Google Distance Matrix API. It implements
// rates.DistanceProvider; every failure mode comes back as an error so
// the rate engine can degrade to its postal-code fallback.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	lookupTimeout  = 10 * time.Second
)

var ErrUnavailable = errors.New("distance unavailable")

type Client struct {
	APIKey  string
	BaseURL string
	HTTPC   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTPC:   &http.Client{Timeout: lookupTimeout},
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *Client) DistanceKM(ctx context.Context, origin, destination string) (float64, error) {
	if c.APIKey == "" {
		return 0, fmt.Errorf("%w: no api key", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("key", c.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if body.Status != "OK" {
		return 0, fmt.Errorf("%w: matrix status %q", ErrUnavailable, body.Status)
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: empty matrix", ErrUnavailable)
	}
	el := body.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, fmt.Errorf("%w: element status %q", ErrUnavailable, el.Status)
	}

	return float64(el.Distance.Value) / 1000.0, nil
}
