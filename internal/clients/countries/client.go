// Package countries wraps the public country-reference API. Results are
// cached so nationality pickers and calling-code lookups stop refetching
// the same static data on every request.
package countries

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"tripgate/internal/cache"
	"tripgate/internal/clients/rest"
	"tripgate/internal/domain"
)

const serviceName = "countries"

// Country is the subset of the public API payload this service reads.
type Country struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
	IDD  struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
}

type Nationality struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache[[]Country]
	ttl     time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache: cache.New(func(v []Country) []Country {
			return append([]Country(nil), v...)
		}),
		ttl: 12 * time.Hour,
	}
}

// Nationalities returns the country list for the traveler form picker.
func (c *Client) Nationalities(ctx context.Context) ([]Nationality, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Nationality, 0, len(all))
	for _, country := range all {
		if country.Name.Common == "" {
			continue
		}
		out = append(out, Nationality{Name: country.Name.Common, Code: country.CCA2})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CallingCode resolves a nationality (common name or cca2 code) to its
// international calling code, e.g. "+62".
func (c *Client) CallingCode(ctx context.Context, nationality string) (string, error) {
	nationality = strings.TrimSpace(nationality)
	if nationality == "" {
		return "", domain.ValidationError{Field: "nationality", Msg: "required"}
	}

	all, err := c.all(ctx)
	if err != nil {
		return "", err
	}

	for _, country := range all {
		if strings.EqualFold(country.Name.Common, nationality) || strings.EqualFold(country.CCA2, nationality) {
			code := country.IDD.Root
			if len(country.IDD.Suffixes) == 1 {
				code += country.IDD.Suffixes[0]
			}
			if code == "" {
				return "", domain.NotFoundError{Resource: "calling code for " + nationality}
			}
			return code, nil
		}
	}
	return "", domain.NotFoundError{Resource: "country " + nationality}
}

func (c *Client) all(ctx context.Context) ([]Country, error) {
	const key = "all"
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	u := c.baseURL + "/all?" + url.Values{"fields": {"name,cca2,idd"}}.Encode()
	var out []Country
	if err := rest.DoJSON(ctx, c.http, serviceName, http.MethodGet, u, nil, nil, &out); err != nil {
		return nil, err
	}

	c.cache.Set(key, out, c.ttl)
	return out, nil
}
