// Package backendapi is the typed client for the agency backend. Every
// endpoint the dashboard consumes has exactly one method here, so error
// classification and timeouts live in a single place instead of being
// re-implemented per page.
package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripgate/internal/clients/rest"
	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

const serviceName = "backend"

type Client struct {
	baseURL string
	http    *http.Client

	// Book-call retry knobs, overridable in tests.
	bookRetries int
	bookBackoff time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		bookRetries: 2,
		bookBackoff: 300 * time.Millisecond,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var raw json.RawMessage
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodGet, u, nil, nil, &raw); err != nil {
		return err
	}
	return rest.DecodeEnveloped(serviceName, raw, out)
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, body, out any) error {
	var raw json.RawMessage
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodPost, c.baseURL+path, headers, body, &raw); err != nil {
		return err
	}
	return rest.DecodeEnveloped(serviceName, raw, out)
}

// Airports lists airports, optionally narrowed by country and city.
func (c *Client) Airports(ctx context.Context, country, city string) ([]models.Airport, error) {
	q := url.Values{}
	if country != "" {
		q.Set("country", country)
	}
	if city != "" {
		q.Set("city", city)
	}
	var out []models.Airport
	if err := c.get(ctx, "/airports", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Airlines(ctx context.Context) ([]models.Airline, error) {
	var out []models.Airline
	if err := c.get(ctx, "/airline", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchFlights(ctx context.Context, query models.FlightSearchQuery) ([]models.Offer, error) {
	var out []models.Offer
	if err := c.post(ctx, "/flights/search", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookingRequest is the composite payload posted at the end of the wizard:
// the selected offer exactly as the search returned it, the traveler list,
// and the captured payment.
type BookingRequest struct {
	Offer     models.Offer         `json:"offer"`
	Travelers []models.Traveler    `json:"travelers"`
	Payment   models.PaymentResult `json:"payment"`
}

type BookingResponse struct {
	Reference    string `json:"reference"`
	TicketNumber string `json:"ticket_number,omitempty"`
	Status       string `json:"status,omitempty"`
}

// BookFlight submits the booking under an idempotency key, retrying
// transient failures. The key makes the retry safe: the backend honors at
// most one booking per key.
func (c *Client) BookFlight(ctx context.Context, idempotencyKey string, req BookingRequest) (BookingResponse, error) {
	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	var out BookingResponse
	var err error
	backoff := c.bookBackoff
	for attempt := 0; attempt <= c.bookRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return BookingResponse{}, domain.UpstreamError{Service: serviceName, Msg: "booking cancelled", Err: ctx.Err()}
			case <-time.After(backoff):
				backoff *= 2
			}
		}
		out = BookingResponse{}
		err = c.post(ctx, "/flights/book", headers, req, &out)
		if err == nil {
			return out, nil
		}
		if !retriable(err) {
			return BookingResponse{}, err
		}
	}
	return BookingResponse{}, err
}

func retriable(err error) bool {
	var up domain.UpstreamError
	if !errors.As(err, &up) {
		return false
	}
	if up.Status >= 500 {
		return true
	}
	// No status plus a wrapped transport error means the request never got
	// a usable answer. An envelope rejection also carries no status, but no
	// wrapped error either: the backend answered, and the answer is final.
	return up.Status == 0 && up.Err != nil
}

func (c *Client) SearchHotels(ctx context.Context, query models.HotelSearchQuery) ([]models.Hotel, error) {
	var out []models.Hotel
	if err := c.post(ctx, "/hotels", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) HotelRooms(ctx context.Context, query models.RoomSearchQuery) ([]models.Room, error) {
	var out []models.Room
	if err := c.post(ctx, "/hotels/rooms", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookedFlights(ctx context.Context) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	if err := c.get(ctx, "/booked-flights", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ManualBookings(ctx context.Context) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	if err := c.get(ctx, "/manual-booking", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Customers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.get(ctx, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Payments(ctx context.Context) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	if err := c.get(ctx, "/payments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OperatorQuery narrows bus/train operator search to a geocoded point.
type OperatorQuery struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TravelDate string  `json:"travel_date,omitempty"`
}

func (c *Client) BusOperators(ctx context.Context) ([]models.Operator, error) {
	var out []models.Operator
	if err := c.get(ctx, "/bus-routes/operators", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchBusOperators(ctx context.Context, query OperatorQuery) ([]models.Operator, error) {
	var out []models.Operator
	if err := c.post(ctx, "/bus-routes/operators", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TrainOperators(ctx context.Context) ([]models.Operator, error) {
	var out []models.Operator
	if err := c.get(ctx, "/train-routes/operators", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchTrainOperators(ctx context.Context, query OperatorQuery) ([]models.Operator, error) {
	var out []models.Operator
	if err := c.post(ctx, "/train-routes/operators", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) AdminLogin(ctx context.Context, req AdminLoginRequest) (models.AdminUser, error) {
	var out models.AdminUser
	if err := c.post(ctx, "/admin/login", nil, req, &out); err != nil {
		return models.AdminUser{}, err
	}
	return out, nil
}

func (c *Client) AdminRegister(ctx context.Context, req AdminRegisterRequest) (models.AdminUser, error) {
	var out models.AdminUser
	if err := c.post(ctx, "/admin/register", nil, req, &out); err != nil {
		return models.AdminUser{}, err
	}
	return out, nil
}

func (c *Client) ChangeAdminPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	var raw json.RawMessage
	u := c.baseURL + "/admin/" + url.PathEscape(email) + "/password"
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodPatch, u, nil, body, &raw); err != nil {
		return err
	}
	return rest.DecodeEnveloped(serviceName, raw, &struct{}{})
}

type CreateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return c.post(ctx, "/users", nil, req, &struct{}{})
}
