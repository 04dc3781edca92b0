package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/findlunch/ordercore/pkg/config"
	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
)

func testConfig(url string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:       url,
		Timeout:       time.Second,
		RetryAttempts: 2,
		RetryBackoff:  time.Millisecond,
	}
}

func TestRestaurantOffersSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/restaurants/7/offers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"Pasta","price":7.5,"neededPoints":30},{"id":2,"title":"Salad","price":4.2,"neededPoints":17,"sold_out":true}]`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	items, err := client.RestaurantOffers(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Price.StringFixed(2) != "7.50" {
		t.Fatalf("unexpected price %s", items[0].Price)
	}
	if !items[1].SoldOut {
		t.Fatalf("expected second item sold out")
	}
}

func TestRestaurantOffersRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.RestaurantOffers(context.Background(), 1); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestRestaurantOffersExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.RestaurantOffers(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeTransport) {
		t.Fatalf("expected transport code, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestRestaurantOffersClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.RestaurantOffers(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 should not be retried, got %d attempts", calls.Load())
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(config.UpstreamConfig{}, nil); err == nil {
		t.Fatalf("expected error for missing base url")
	}
}
