package models

// FlightSearchQuery is the payload forwarded to the fare backend. Origin and
// destination are IATA codes resolved through the airport reference data.
type FlightSearchQuery struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date,omitempty"`
	Passengers    int    `json:"passengers" binding:"required,min=1"`
	CabinClass    string `json:"cabin_class,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

type HotelSearchQuery struct {
	City     string `json:"city" binding:"required"`
	Country  string `json:"country,omitempty"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Rooms    int    `json:"rooms" binding:"required,min=1"`
	Guests   int    `json:"guests,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type RoomSearchQuery struct {
	HotelID  string `json:"hotel_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Rooms    int    `json:"rooms,omitempty"`
}

// GroundSearchQuery covers bus and train search: a free-text city is
// geocoded first, then operators near the coordinate are queried.
type GroundSearchQuery struct {
	FromCity   string `json:"from_city" binding:"required"`
	ToCity     string `json:"to_city" binding:"required"`
	TravelDate string `json:"travel_date" binding:"required"`
	Passengers int    `json:"passengers,omitempty"`
}
