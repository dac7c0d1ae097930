// Package geocode wraps the public free-form geocoder used to resolve a
// typed city name to coordinates before the ground-transport searches.
package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripgate/internal/clients/rest"
	"tripgate/internal/domain"
)

const serviceName = "geocoder"

type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup resolves a free-form query to its best match.
func (c *Client) Lookup(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, domain.ValidationError{Field: "city", Msg: "required"}
	}

	u := c.baseURL + "/search?" + url.Values{"q": {query}, "format": {"json"}}.Encode()

	var results []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodGet, u, nil, nil, &results); err != nil {
		return Place{}, err
	}
	if len(results) == 0 {
		return Place{}, domain.NotFoundError{Resource: "place " + query}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Place{}, domain.UpstreamError{Service: serviceName, Msg: "bad latitude", Err: err}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Place{}, domain.UpstreamError{Service: serviceName, Msg: "bad longitude", Err: err}
	}

	return Place{Name: results[0].DisplayName, Latitude: lat, Longitude: lon}, nil
}
