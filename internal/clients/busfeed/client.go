// Package busfeed wraps the public bus-schedule aggregator queried for
// operators serving stops near a coordinate.
package busfeed

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripgate/internal/clients/rest"
	"tripgate/internal/domain/models"
)

const serviceName = "busfeed"

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

// OperatorsNear lists operators with stops around the given coordinate.
func (c *Client) OperatorsNear(ctx context.Context, lat, lon float64, date string) ([]models.Operator, error) {
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', 6, 64)},
	}
	if date != "" {
		q.Set("date", date)
	}

	var resp struct {
		Stations []struct {
			ID        string  `json:"id"`
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Operators []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"operators"`
		} `json:"stations"`
	}
	u := c.baseURL + "/cms/stations?" + q.Encode()
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodGet, u, nil, nil, &resp); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	out := []models.Operator{}
	for _, st := range resp.Stations {
		for _, op := range st.Operators {
			if seen[op.ID] {
				continue
			}
			seen[op.ID] = true
			out = append(out, models.Operator{
				ID:        op.ID,
				Name:      op.Name,
				Mode:      "bus",
				StopName:  st.Name,
				Latitude:  st.Latitude,
				Longitude: st.Longitude,
			})
		}
	}
	return out, nil
}
