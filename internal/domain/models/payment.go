package models

import "time"

// PaymentResult is the outcome of confirming a tokenized payment method.
// It never carries raw card data; the hosted card field keeps that.
type PaymentResult struct {
	PaymentMethodID string    `json:"payment_method_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerName    string    `json:"customer_name"`
	Timestamp       time.Time `json:"timestamp"`
	Status          string    `json:"status"`
}

func (p PaymentResult) Succeeded() bool {
	return p.Status == "succeeded"
}
