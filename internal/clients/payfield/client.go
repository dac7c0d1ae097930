// Package payfield talks to the hosted card-field processor. The browser
// tokenizes card data inside the processor's iframe and hands this service
// a payment-method token; confirming that token is the only thing done
// here. Raw PAN/CVC never transit this codebase.
package payfield

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tripgate/internal/clients/rest"
	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

const serviceName = "payfield"

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func New(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// ConfirmRequest captures a previously tokenized payment method.
type ConfirmRequest struct {
	PaymentMethodID string  `json:"payment_method_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerName    string  `json:"customer_name"`
}

// Confirm captures the payment method and returns the settled result.
// A processor-side decline comes back as a validation error so the caller
// can let the user retry with another card.
func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (models.PaymentResult, error) {
	if strings.TrimSpace(req.PaymentMethodID) == "" {
		return models.PaymentResult{}, domain.ValidationError{Field: "payment_method_id", Msg: "required"}
	}
	if req.Amount <= 0 {
		return models.PaymentResult{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	headers := map[string]string{"Authorization": "Bearer " + c.secretKey}

	var resp struct {
		ID            string  `json:"id"`
		Status        string  `json:"status"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		DeclineReason string  `json:"decline_reason,omitempty"`
	}
	err := rest.DoJSON(ctx, c.http, serviceName, http.MethodPost, c.baseURL+"/payment_intents/confirm", headers, req, &resp)
	if err != nil {
		return models.PaymentResult{}, err
	}

	if resp.Status != "succeeded" {
		msg := resp.DeclineReason
		if msg == "" {
			msg = "payment " + resp.Status
		}
		return models.PaymentResult{}, domain.ValidationError{Field: "payment", Msg: msg}
	}

	return models.PaymentResult{
		PaymentMethodID: resp.ID,
		Amount:          resp.Amount,
		Currency:        resp.Currency,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		Timestamp:       time.Now().UTC(),
		Status:          resp.Status,
	}, nil
}
