package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartstore "github.com/findlunch/ordercore/internal/cart"
)

func newCartRouter(store *cartstore.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/carts/{restaurantID}", func(r chi.Router) {
		r.Get("/", CartFetch(store, nil))
		r.Post("/items", CartAddItem(store, nil))
		r.Delete("/", CartEmpty(store, nil))
	})
	return r
}

func decodeCart(t *testing.T, body *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(body.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemDedupes(t *testing.T) {
	router := newCartRouter(cartstore.NewStore())
	item := `{"id":11,"title":"Pasta","price":4.50,"needed_points":20,"preparation_time":15}`

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/carts/7/items", strings.NewReader(item)))
		if w.Code != http.StatusOK {
			t.Fatalf("add item returned %d: %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/carts/7", nil))
	cart := decodeCart(t, w)
	if len(cart.Lines) != 1 {
		t.Fatalf("lines = %d, want a single deduped line", len(cart.Lines))
	}
	if cart.Lines[0].Amount != 2 || cart.ItemCount != 2 {
		t.Fatalf("amount = %d, item_count = %d, want 2/2", cart.Lines[0].Amount, cart.ItemCount)
	}
	if cart.TotalPrice.String() != "9" {
		t.Fatalf("total = %s, want 9", cart.TotalPrice)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	router := newCartRouter(cartstore.NewStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/carts/7/items", strings.NewReader(`{"title":"no id"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", w.Code)
	}
}

func TestCartFetchRejectsBadRestaurantID(t *testing.T) {
	router := newCartRouter(cartstore.NewStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/carts/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestCartEmpty(t *testing.T) {
	store := cartstore.NewStore()
	router := newCartRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/carts/7/items",
		strings.NewReader(`{"id":1,"title":"Soup","price":2.00}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("add item returned %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/carts/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("empty cart returned %d", w.Code)
	}
	if got := decodeCart(t, w).ItemCount; got != 0 {
		t.Fatalf("item_count = %d after emptying, want 0", got)
	}
}
