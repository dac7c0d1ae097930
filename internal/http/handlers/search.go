package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripgate/internal/clients/backendapi"
	"tripgate/internal/clients/busfeed"
	"tripgate/internal/clients/countries"
	"tripgate/internal/clients/geocode"
	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
	"tripgate/internal/http/middleware"
	"tripgate/internal/pricing"
	"tripgate/internal/utils"
)

// SearchHandlers serves the four search pages plus the reference-data
// pickers feeding them.
type SearchHandlers struct {
	Backend   *backendapi.Client
	Countries *countries.Client
	Geocoder  *geocode.Client
	BusFeed   *busfeed.Client
}

// GET /api/reference/airports?country=&city=
func (h SearchHandlers) Airports(c *gin.Context) {
	airports, err := h.Backend.Airports(c.Request.Context(), c.Query("country"), c.Query("city"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, airports)
}

// GET /api/reference/airlines
func (h SearchHandlers) Airlines(c *gin.Context) {
	airlines, err := h.Backend.Airlines(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, airlines)
}

// GET /api/reference/nationalities
func (h SearchHandlers) Nationalities(c *gin.Context) {
	nationalities, err := h.Countries.Nationalities(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, nationalities)
}

// POST /api/search/flights
func (h SearchHandlers) Flights(c *gin.Context) {
	var query models.FlightSearchQuery
	if !BindJSONOrError(c, &query) {
		return
	}
	if _, err := utils.ParseDate(query.DepartureDate); err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "departure_date", Msg: "expected YYYY-MM-DD", Err: err})
		return
	}

	offers, err := h.Backend.SearchFlights(c.Request.Context(), query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pricing.DecorateOffers(offers)
	RespondData(c, http.StatusOK, offers)
}

// POST /api/search/hotels
func (h SearchHandlers) Hotels(c *gin.Context) {
	var query models.HotelSearchQuery
	if !BindJSONOrError(c, &query) {
		return
	}
	hotels, err := h.Backend.SearchHotels(c.Request.Context(), query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, hotels)
}

// POST /api/search/hotels/rooms
func (h SearchHandlers) HotelRooms(c *gin.Context) {
	var query models.RoomSearchQuery
	if !BindJSONOrError(c, &query) {
		return
	}
	rooms, err := h.Backend.HotelRooms(c.Request.Context(), query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rooms)
}

// POST /api/search/buses
func (h SearchHandlers) Buses(c *gin.Context) {
	h.groundSearch(c, "bus")
}

// POST /api/search/trains
func (h SearchHandlers) Trains(c *gin.Context) {
	h.groundSearch(c, "train")
}

// groundSearch geocodes the origin city and merges operators from the
// public aggregator (buses only) with the backend's own route operators.
func (h SearchHandlers) groundSearch(c *gin.Context, mode string) {
	var query models.GroundSearchQuery
	if !BindJSONOrError(c, &query) {
		return
	}

	ctx := c.Request.Context()
	place, err := h.Geocoder.Lookup(ctx, query.FromCity)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	operatorQuery := backendapi.OperatorQuery{
		Latitude:   place.Latitude,
		Longitude:  place.Longitude,
		TravelDate: query.TravelDate,
	}

	var operators []models.Operator
	if mode == "train" {
		operators, err = h.Backend.SearchTrainOperators(ctx, operatorQuery)
	} else {
		operators, err = h.Backend.SearchBusOperators(ctx, operatorQuery)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if mode == "bus" {
		feed, feedErr := h.BusFeed.OperatorsNear(ctx, place.Latitude, place.Longitude, query.TravelDate)
		if feedErr != nil {
			// The public feed is best-effort; backend operators alone are a
			// valid result.
			utils.LogEvent(middleware.GetRequestID(c), "search", "busfeed_degraded", feedErr.Error())
		} else {
			operators = mergeOperators(operators, feed)
		}
	}

	RespondData(c, http.StatusOK, gin.H{
		"place":     gin.H{"name": place.Name, "latitude": place.Latitude, "longitude": place.Longitude},
		"operators": operators,
	})
}

func mergeOperators(primary, extra []models.Operator) []models.Operator {
	seen := make(map[string]bool, len(primary))
	for _, op := range primary {
		seen[op.ID] = true
	}
	for _, op := range extra {
		if op.ID == "" || !seen[op.ID] {
			primary = append(primary, op)
			if op.ID != "" {
				seen[op.ID] = true
			}
		}
	}
	return primary
}
