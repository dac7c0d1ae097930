package payfield

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripgate/internal/domain"
)

func confirmServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "sk_test_abc", 5*time.Second)
}

func TestConfirmSuccess(t *testing.T) {
	var gotAuth string
	client := confirmServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/payment_intents/confirm" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "pm_1", "status": "succeeded", "amount": 230.0, "currency": "USD",
		})
	})

	result, err := client.Confirm(context.Background(), ConfirmRequest{
		PaymentMethodID: "tok_1",
		Amount:          230,
		Currency:        "USD",
		CustomerEmail:   "rina@example.com",
		CustomerName:    "Rina Putri",
	})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if gotAuth != "Bearer sk_test_abc" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !result.Succeeded() || result.PaymentMethodID != "pm_1" || result.Amount != 230 {
		t.Errorf("result = %+v", result)
	}
	if result.CustomerEmail != "rina@example.com" {
		t.Errorf("customer email = %q", result.CustomerEmail)
	}
}

func TestConfirmDeclineIsValidationError(t *testing.T) {
	client := confirmServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "pm_1", "status": "declined", "decline_reason": "insufficient funds",
		})
	})

	_, err := client.Confirm(context.Background(), ConfirmRequest{PaymentMethodID: "tok_1", Amount: 230})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domain.IsPaymentCaptured(err) {
		t.Fatal("a decline must never read as a captured payment")
	}
}

func TestConfirmRejectsBadInput(t *testing.T) {
	client := confirmServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("processor should not be called for invalid input")
	})

	if _, err := client.Confirm(context.Background(), ConfirmRequest{Amount: 230}); !domain.IsValidation(err) {
		t.Fatalf("missing token: got %v", err)
	}
	if _, err := client.Confirm(context.Background(), ConfirmRequest{PaymentMethodID: "tok_1"}); !domain.IsValidation(err) {
		t.Fatalf("non-positive amount: got %v", err)
	}
}

func TestConfirmProcessorOutage(t *testing.T) {
	client := confirmServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Confirm(context.Background(), ConfirmRequest{PaymentMethodID: "tok_1", Amount: 230})
	if !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
