// Package rest is the shared plumbing for the typed external clients:
// JSON round-trips with context deadlines and upstream error
// classification.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"tripgate/internal/domain"
)

const maxBodyBytes = 4 << 20

// DoJSON performs one request and decodes the response into out (skipped
// when out is nil). Non-2xx statuses come back as domain.UpstreamError
// tagged with the service name.
func DoJSON(ctx context.Context, client *http.Client, service, method, url string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode " + service + " request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return domain.InternalError{Msg: "build " + service + " request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return domain.UpstreamError{Service: service, Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.UpstreamError{Service: service, Status: resp.StatusCode, Msg: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.UpstreamError{Service: service, Status: resp.StatusCode, Msg: summarize(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.UpstreamError{Service: service, Status: resp.StatusCode, Msg: "decode response", Err: err}
	}
	return nil
}

// Envelope is the backend's {success,data} convention. Endpoints that skip
// the envelope are tolerated by Unwrap.
type Envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Unwrap decodes raw either as an envelope (returning its data) or, when no
// envelope markers are present, as the payload itself.
func (e Envelope) Unwrap(service string, out any) error {
	if e.Success != nil && !*e.Success {
		msg := e.Message
		if msg == "" {
			msg = "request rejected"
		}
		return domain.UpstreamError{Service: service, Msg: msg}
	}
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return domain.UpstreamError{Service: service, Msg: "decode envelope data", Err: err}
	}
	return nil
}

// DecodeEnveloped decodes a body that may or may not use the envelope
// convention.
func DecodeEnveloped(service string, raw json.RawMessage, out any) error {
	trim := bytes.TrimSpace(raw)
	if len(trim) == 0 {
		return nil
	}
	if trim[0] == '{' {
		var env Envelope
		if err := json.Unmarshal(trim, &env); err == nil && (env.Success != nil || len(env.Data) > 0) {
			return env.Unwrap(service, out)
		}
	}
	if err := json.Unmarshal(trim, out); err != nil {
		return domain.UpstreamError{Service: service, Msg: "decode response", Err: err}
	}
	return nil
}

func summarize(raw []byte) string {
	var sniffed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &sniffed); err == nil {
		if sniffed.Message != "" {
			return sniffed.Message
		}
		if sniffed.Error != "" {
			return sniffed.Error
		}
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(bytes.TrimSpace(raw))
}
