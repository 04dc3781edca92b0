package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/findlunch/ordercore/internal/cart"
	"github.com/findlunch/ordercore/internal/catalog"
	"github.com/findlunch/ordercore/internal/donation"
	"github.com/findlunch/ordercore/internal/orders"
	"github.com/findlunch/ordercore/internal/transport"
	"github.com/findlunch/ordercore/pkg/clock"
	"github.com/findlunch/ordercore/pkg/config"
	"github.com/findlunch/ordercore/pkg/metrics"
)

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		Upstream: config.UpstreamConfig{
			BaseURL:       upstreamURL,
			Timeout:       2 * time.Second,
			RetryAttempts: 2,
			RetryBackoff:  time.Millisecond,
		},
		Order: config.OrderConfig{PrepTime: 10 * time.Minute},
	}
}

// Walks the whole flow against a fake registration backend: fill the cart,
// open a draft, donate, submit, and observe the wire payload.
func TestRouterOrderFlow(t *testing.T) {
	var registered map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/register_reservation":
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &registered); err != nil {
				t.Errorf("upstream received invalid JSON: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		case "/api/restaurants/7/offers":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":11,"title":"Pasta","price":2.50}]`))
		default:
			t.Errorf("unexpected upstream path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	carts := cart.NewStore()
	submitter, err := transport.NewSubmitter(cfg.Upstream, nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}
	offers, err := catalog.NewClient(cfg.Upstream, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	registry := prometheus.NewRegistry()
	svc, err := orders.NewService(orders.ServiceParams{
		Carts:     carts,
		Ledger:    donation.NewLedger(nil),
		Submitter: submitter,
		Clock:     clock.Fixed(time.Unix(1_700_000_000, 0)),
		Metrics:   metrics.NewOrderFlowMetrics(registry),
		PrepTime:  cfg.Order.PrepTime,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	router := NewRouter(cfg, nil, carts, svc, offers, registry)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		if body == "" {
			body = "{}"
		}
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	if w := do(http.MethodGet, "/health/live", ""); w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}

	if w := do(http.MethodGet, "/api/v1/restaurants/7/offers", ""); w.Code != http.StatusOK {
		t.Fatalf("offers returned %d: %s", w.Code, w.Body.String())
	}

	w := do(http.MethodPost, "/api/v1/carts/7/items", `{"id":11,"title":"Pasta","price":2.50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add item returned %d: %s", w.Code, w.Body.String())
	}

	w = do(http.MethodPost, "/api/v1/carts/7/draft", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("open draft returned %d: %s", w.Code, w.Body.String())
	}
	var draftEnvelope struct {
		Data struct {
			ID         string          `json:"id"`
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&draftEnvelope); err != nil {
		t.Fatalf("failed to decode draft: %v", err)
	}
	draftID := draftEnvelope.Data.ID

	if w := do(http.MethodPost, "/api/v1/orders/"+draftID+"/donation/increment", ""); w.Code != http.StatusOK {
		t.Fatalf("donation increment returned %d: %s", w.Code, w.Body.String())
	}

	if w := do(http.MethodPost, "/api/v1/orders/"+draftID+"/submit", ""); w.Code != http.StatusOK {
		t.Fatalf("submit returned %d: %s", w.Code, w.Body.String())
	}

	if registered == nil {
		t.Fatal("upstream never received the reservation")
	}
	if got := registered["totalPrice"]; got != 2.6 {
		t.Fatalf("wire totalPrice = %v, want 2.6", got)
	}
	if got := registered["donation"]; got != 0.1 {
		t.Fatalf("wire donation = %v, want 0.1", got)
	}
	wireOffers, ok := registered["reservation_offers"].([]any)
	if !ok || len(wireOffers) != 1 {
		t.Fatalf("wire reservation_offers = %v", registered["reservation_offers"])
	}

	w = do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "order_submit_success") {
		t.Fatalf("metrics output missing order flow families: %s", w.Body.String()[:200])
	}
}

func TestRouterUnknownDraftIs404(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	carts := cart.NewStore()
	submitter, err := transport.NewSubmitter(cfg.Upstream, nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}
	offers, err := catalog.NewClient(cfg.Upstream, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	svc, err := orders.NewService(orders.ServiceParams{
		Carts:     carts,
		Ledger:    donation.NewLedger(nil),
		Submitter: submitter,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	router := NewRouter(cfg, nil, carts, svc, offers, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown draft returned %d, want 404", w.Code)
	}
}
