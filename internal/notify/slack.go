package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
)

// SlackSink posts Block Kit messages to incoming webhooks, one per
// channel. An empty webhook URL disables that channel silently.
type SlackSink struct {
	OrdersURL string
	StoresURL string
	HTTPC     *http.Client

	now func() time.Time
	loc *time.Location
}

func NewSlackSink(ordersURL, storesURL string) *SlackSink {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.UTC
	}
	return &SlackSink{
		OrdersURL: ordersURL,
		StoresURL: storesURL,
		HTTPC:     &http.Client{Timeout: sendTimeout},
		now:       time.Now,
		loc:       loc,
	}
}

type textObj struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type   string    `json:"type"`
	Text   *textObj  `json:"text,omitempty"`
	Fields []textObj `json:"fields,omitempty"`
}

type message struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks"`
}

func (s *SlackSink) OrderCreated(ctx context.Context, o repo.Snapshot) error {
	fields := []textObj{
		mrkdwn("Orden ID", o.OrderID),
		mrkdwn("Store ID", o.StoreID),
		mrkdwn("Cliente", o.CustomerName),
		mrkdwn("Email", o.CustomerEmail),
		mrkdwn("Teléfono", o.CustomerPhone),
		mrkdwn("Total", o.Total.String()+" "+o.Currency),
		mrkdwn("Estado", o.Status),
		mrkdwn("Método de envío", o.ShippingMethod),
		mrkdwn("Opción de envío", o.ShippingOption),
		mrkdwn("Dirección de envío", prettyAddress(o.ShippingAddress)),
		mrkdwn("Fecha", s.stamp()),
	}
	return s.post(ctx, s.OrdersURL, message{
		Text: "Nueva orden PickNShip: " + o.OrderID,
		Blocks: []block{
			{Type: "header", Text: &textObj{Type: "plain_text", Text: "📦 Nueva orden PickNShip"}},
			{Type: "section", Fields: fields},
		},
	})
}

func (s *SlackSink) OrderUpdated(ctx context.Context, orderID, storeID string, changes reconcile.Diff) error {
	lines := make([]string, 0, len(changes))
	for _, field := range sortedFields(changes) {
		c := changes[field]
		lines = append(lines, fmt.Sprintf("*%s*: %s → %s", field, orEmDash(c.Old), orEmDash(c.New)))
	}
	if len(lines) == 0 {
		lines = append(lines, "No se detectaron cambios visibles.")
	}

	fields := []textObj{
		mrkdwn("Orden ID", orderID),
		mrkdwn("Store ID", storeID),
		mrkdwn("Cambios", strings.Join(lines, "\n")),
		mrkdwn("Fecha", s.stamp()),
	}
	return s.post(ctx, s.OrdersURL, message{
		Text: "Orden actualizada PickNShip: " + orderID,
		Blocks: []block{
			{Type: "header", Text: &textObj{Type: "plain_text", Text: "✏️ Orden PickNShip actualizada"}},
			{Type: "section", Fields: fields},
		},
	})
}

func (s *SlackSink) StoreInstalled(ctx context.Context, st repo.Store) error {
	fields := []textObj{
		mrkdwn("Store ID", st.StoreID),
		mrkdwn("Nombre", st.Name),
		mrkdwn("Dominio", st.Domain),
		mrkdwn("Email", st.Email),
		mrkdwn("Fecha", s.stamp()),
	}
	return s.post(ctx, s.StoresURL, message{
		Text: "Nueva tienda conectada a PickNShip",
		Blocks: []block{
			{Type: "header", Text: &textObj{Type: "plain_text", Text: "🎉 Nueva tienda conectada"}},
			{Type: "section", Fields: fields},
		},
	})
}

func (s *SlackSink) post(ctx context.Context, url string, m message) error {
	if url == "" {
		return nil
	}

	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPC.Do(req)
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

func (s *SlackSink) stamp() string {
	loc := s.loc
	if loc == nil {
		loc = time.UTC
	}
	return s.now().In(loc).Format("02/01/2006 15:04:05")
}

func mrkdwn(label, value string) textObj {
	return textObj{Type: "mrkdwn", Text: fmt.Sprintf("*%s:*\n%s", label, orEmDash(value))}
}

func orEmDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func prettyAddress(a repo.Address) string {
	parts := make([]string, 0, 8)
	add := func(p string) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	add(a.Street)
	add(a.Number)
	if a.Floor != "" {
		add("Depto " + a.Floor)
	}
	add(a.Locality)
	add(a.City)
	add(a.Province)
	add(a.Country)
	add(a.PostalCode)
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

func sortedFields(d reconcile.Diff) []string {
	fields := make([]string, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
