package models

// BookingStatus values mirror the backend's booking lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingRefunded  BookingStatus = "Refunded"
)

// BookingRecord is the read-only admin projection of a backend booking.
type BookingRecord struct {
	Reference    string        `json:"reference"`
	CustomerName string        `json:"customer_name"`
	Route        string        `json:"route"`
	Date         string        `json:"date"`
	Status       BookingStatus `json:"status"`
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency"`
}

type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
	// Derived from CreatedAt, never stored upstream.
	Status string `json:"status,omitempty"`
}

type PaymentRecord struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference,omitempty"`
	Customer  string  `json:"customer,omitempty"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// AdminUser is the backend's admin account projection.
type AdminUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
