package playtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// Feedback mirrors the body of a successful /api/compare response.
type Feedback struct {
	Year     string `json:"year"`
	Genres   string `json:"genres"`
	Rating   string `json:"rating"`
	Director string `json:"director"`
	Stars    string `json:"stars"`
	Type     string `json:"type"`
}

// Solved reports whether every supported attribute matched exactly.
func (f Feedback) Solved() bool {
	return f.Year == "green" && f.Genres == "green" && f.Rating == "green"
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-200 response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// HTTPClient wraps http.Client with the server base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(cfg *Config) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// Compare sends one guess to /api/compare.
func (c *HTTPClient) Compare(ctx context.Context, guess string) (Feedback, error) {
	u := c.baseURL + "/api/compare?" + url.Values{"guessedMovie": {guess}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Feedback{}, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return Feedback{}, &APIError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Message}
	}

	var fb Feedback
	if err := json.Unmarshal(body, &fb); err != nil {
		return Feedback{}, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return fb, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
