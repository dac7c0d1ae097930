package models

import "encoding/json"

// Offer is a fare offer as returned by the backend. Only the fields below
// are contractually stable; everything else the upstream sent rides along in
// Raw and is echoed back verbatim on booking so the backend can re-validate
// the fare.
type Offer struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	// Display price with the flat agency markup applied. Derived here,
	// never read from upstream.
	DisplayPrice float64 `json:"display_price,omitempty"`

	Carrier  string    `json:"carrier,omitempty"`
	Segments []Segment `json:"segments,omitempty"`

	Raw json.RawMessage `json:"raw,omitempty"`
}

type Segment struct {
	Carrier      string `json:"carrier,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartureAt  string `json:"departure_at"`
	ArrivalAt    string `json:"arrival_at"`
}

type Airport struct {
	IATA    string `json:"iata"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Hotel struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	City    string          `json:"city"`
	Country string          `json:"country"`
	Rating  float64         `json:"rating,omitempty"`
	Price   float64         `json:"price,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

type Room struct {
	ID       string  `json:"id"`
	HotelID  string  `json:"hotel_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Capacity int     `json:"capacity,omitempty"`
}

// Operator is a bus or train operator serving a stop near a searched city.
type Operator struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Mode      string  `json:"mode"`
	StopName  string  `json:"stop_name,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}
