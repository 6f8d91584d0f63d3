package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 1 << 10

func newHTTPClient(timeoutSec int) *http.Client {
	return &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
}

// statusError carries a non-200 upstream response.
type statusError struct {
	api    string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.api, e.status, e.body)
}

// getJSON performs a GET and decodes a 200 response into out.
// Non-200 responses are returned as *statusError.
func getJSON(ctx context.Context, client *http.Client, api, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s API request creation failed: %w", api, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s API request failed: %w", api, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{api: api, status: resp.StatusCode, body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s API response: %w", api, err)
	}
	return nil
}
