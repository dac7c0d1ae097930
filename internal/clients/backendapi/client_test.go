package backendapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, 5*time.Second)
	c.bookBackoff = time.Millisecond
	return c
}

func TestAirportsDecodesEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/airports" {
			t.Errorf("path = %s, want /airports", r.URL.Path)
		}
		if r.URL.Query().Get("country") != "ID" {
			t.Errorf("country = %q, want ID", r.URL.Query().Get("country"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []models.Airport{
				{IATA: "CGK", Name: "Soekarno-Hatta", City: "Jakarta", Country: "ID"},
			},
		})
	}))

	airports, err := client.Airports(context.Background(), "ID", "")
	if err != nil {
		t.Fatalf("Airports: %v", err)
	}
	if len(airports) != 1 || airports[0].IATA != "CGK" {
		t.Fatalf("unexpected airports: %+v", airports)
	}
}

func TestCustomersDecodesBareArray(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Customer{{ID: "c1", Name: "Ayu"}})
	}))

	customers, err := client.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 1 || customers[0].ID != "c1" {
		t.Fatalf("unexpected customers: %+v", customers)
	}
}

func TestEnvelopeFailureBecomesUpstreamError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "no flights"})
	}))

	_, err := client.SearchFlights(context.Background(), models.FlightSearchQuery{Origin: "CGK", Destination: "SIN"})
	if !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestBookFlightRetriesWithSameIdempotencyKey(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts int32
		keys     []string
	)

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    BookingResponse{Reference: "REF-1", TicketNumber: "TK-1"},
		})
	}))

	resp, err := client.BookFlight(context.Background(), "key-123", BookingRequest{
		Offer: models.Offer{ID: "OF-1", Price: 200},
	})
	if err != nil {
		t.Fatalf("BookFlight: %v", err)
	}
	if resp.Reference != "REF-1" {
		t.Errorf("reference = %q, want REF-1", resp.Reference)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, k := range keys {
		if k != "key-123" {
			t.Errorf("attempt %d sent key %q, want key-123", i+1, k)
		}
	}
}

func TestBookFlightDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "fare changed"})
	}))

	_, err := client.BookFlight(context.Background(), "key-123", BookingRequest{})
	if !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx must not retry)", attempts)
	}
}

func TestBookFlightDoesNotRetryEnvelopeRejections(t *testing.T) {
	var attempts int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "fare no longer available"})
	}))

	_, err := client.BookFlight(context.Background(), "key-123", BookingRequest{})
	if !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1 (a rejected fare is final)", got)
	}
}

func TestBookFlightRetriesTransportFailures(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			// Drop the connection mid-request.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("recorder does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    BookingResponse{Reference: "REF-1"},
		})
	}))
	t.Cleanup(srv.Close)
	client := New(srv.URL, 5*time.Second)
	client.bookBackoff = time.Millisecond

	resp, err := client.BookFlight(context.Background(), "key-123", BookingRequest{})
	if err != nil {
		t.Fatalf("BookFlight: %v", err)
	}
	if resp.Reference != "REF-1" {
		t.Errorf("reference = %q, want REF-1", resp.Reference)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2 (transport failure is transient)", got)
	}
}

func TestChangeAdminPasswordEscapesEmail(t *testing.T) {
	var gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	if err := client.ChangeAdminPassword(context.Background(), "a+b@example.com", "old", "new"); err != nil {
		t.Fatalf("ChangeAdminPassword: %v", err)
	}
	if gotPath != "/admin/a+b@example.com/password" && gotPath != "/admin/a%2Bb@example.com/password" {
		t.Errorf("unexpected path %q", gotPath)
	}
}
