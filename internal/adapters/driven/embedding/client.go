package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Call is one JSON round trip to a provider endpoint.
type Call struct {
	Provider string
	Method   string
	URL      string
	Header   http.Header

	// Body is encoded as the JSON request body when non-nil.
	Body any

	// ErrorMessage extracts the provider's message from a failed response.
	// The trimmed body is used when it is nil or returns "".
	ErrorMessage func(body []byte) string
}

// Do performs c with client and decodes a 200 response into out, which may
// be nil when the response body is irrelevant. Other statuses return a
// *StatusError.
func Do(ctx context.Context, client *http.Client, c Call, out any) error {
	var body io.Reader = http.NoBody
	if c.Body != nil {
		encoded, err := json.Marshal(c.Body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.Provider, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, c.Method, c.URL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.Provider, err)
	}
	for k, values := range c.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if c.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", c.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		msg := ""
		if c.ErrorMessage != nil {
			msg = c.ErrorMessage(raw)
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &StatusError{Provider: c.Provider, StatusCode: resp.StatusCode, Body: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.Provider, err)
	}
	return nil
}

// ToFloat32 narrows a decoded JSON vector.
func ToFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
