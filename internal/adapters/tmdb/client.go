package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/pkg/logger"
	"github.com/okian/cinedle/pkg/metrics"
)

const (
	defaultAttemptTimeout  = 5 * time.Second
	defaultRatePerSec      = 20
	defaultBurst           = 10
	defaultMaxAttempts     = 3
	defaultRetryInitial    = 200 * time.Millisecond
	defaultRetryMax        = 2 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second

	opSearch  = "search"
	opPopular = "popular"
)

var (
	errTransport = errors.New("transport failure")
	errDecode    = errors.New("decode failure")
)

// Client provides access to the TMDB API.
type Client struct {
	apiKey   string
	baseURL  string
	language string

	httpClient     *http.Client
	attemptTimeout time.Duration
	limiter        *rate.Limiter
	retry          retryPolicy

	breakerFailures uint32
	breakerTimeout  time.Duration
	breaker         *gobreaker.CircuitBreaker[*Response]

	flights singleflight.Group
	log     logger.Logger
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	c := &Client{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		language:        strings.TrimSpace(language),
		httpClient:      &http.Client{},
		attemptTimeout:  defaultAttemptTimeout,
		limiter:         rate.NewLimiter(defaultRatePerSec, defaultBurst),
		retry:           retryPolicy{maxAttempts: defaultMaxAttempts, initial: defaultRetryInitial, max: defaultRetryMax},
		breakerFailures: defaultBreakerFailures,
		breakerTimeout:  defaultBreakerTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("tmdb")
	}
	if c.retry.max < c.retry.initial {
		c.retry.max = c.retry.initial
	}
	c.breaker = newBreaker(c.breakerFailures, c.breakerTimeout, c.log)
	return c, nil
}

// Search returns the provider's first hit for query in category c as listed,
// even when it lacks fields the feedback engine needs.
func (c *Client) Search(ctx context.Context, query string, cat model.Category) (model.Entity, error) {
	resp, err := c.search(ctx, query, cat)
	if err != nil {
		return model.Entity{}, err
	}
	if len(resp.Results) == 0 {
		return model.Entity{}, fmt.Errorf("%w: %q in %s", ErrNotFound, query, cat)
	}
	return resp.Results[0].Summary(cat), nil
}

// Resolve returns the first hit for query in category c that can be scored.
// A search whose hits are all unusable resolves to ErrNotFound.
func (c *Client) Resolve(ctx context.Context, query string, cat model.Category) (model.Entity, error) {
	resp, err := c.search(ctx, query, cat)
	if err != nil {
		return model.Entity{}, err
	}
	for _, r := range resp.Results {
		e, err := r.Entity(cat)
		if err != nil {
			c.log.Debug(ctx, "skipping provider record", logger.Error(err))
			continue
		}
		return e, nil
	}
	return model.Entity{}, fmt.Errorf("%w: %q in %s", ErrNotFound, query, cat)
}

func (c *Client) search(ctx context.Context, query string, cat model.Category) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	return c.fetch(ctx, opSearch, "/search/"+cat.String(), params)
}

// Popular returns the valid records of the first page of the popular listing.
func (c *Client) Popular(ctx context.Context, cat model.Category) ([]model.Entity, error) {
	resp, err := c.fetch(ctx, opPopular, "/"+cat.String()+"/popular", url.Values{})
	if err != nil {
		return nil, err
	}
	out := make([]model.Entity, 0, len(resp.Results))
	for _, r := range resp.Results {
		e, err := r.Entity(cat)
		if err != nil {
			c.log.Debug(ctx, "skipping provider record", logger.Error(err))
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %w: popular %s listing has no usable records", ErrProvider, ErrInvalidRecord, cat)
	}
	return out, nil
}

// fetch collapses identical in-flight requests and waits for the shared
// result or the caller's context, whichever comes first.
func (c *Client) fetch(ctx context.Context, op, path string, params url.Values) (*Response, error) {
	key := path + "?" + params.Encode()
	ch := c.flights.DoChan(key, func() (interface{}, error) {
		return c.do(context.WithoutCancel(ctx), op, path, params)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	}
}

// do runs the retry loop. ctx keeps the caller's values but not its
// cancellation, so a flight shared by several callers outlives the first.
func (c *Client) do(ctx context.Context, op, path string, params url.Values) (*Response, error) {
	attempt := 0
	operation := func() (*Response, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s: rate limiter: %w", ErrProvider, op, err))
		}
		resp, err := c.breaker.Execute(func() (*Response, error) {
			return c.attempt(ctx, op, path, params)
		})
		switch {
		case err == nil:
			return resp, nil
		case breakerRejected(err):
			metrics.RecordProviderRequest(op, "rejected", 0)
			return nil, backoff.Permanent(fmt.Errorf("%w: %s: %w", ErrProvider, op, err))
		case transient(err):
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}
	notify := func(err error, wait time.Duration) {
		metrics.RecordProviderRetry(op)
		c.log.Warn(ctx, "provider call failed, retrying",
			logger.String("op", op),
			logger.Int("attempt", attempt),
			logger.Duration("wait", wait),
			logger.Error(err))
	}
	resp, err := backoff.RetryNotifyWithData(operation, c.retry.backOff(ctx), notify)
	if err != nil {
		if !errors.Is(err, ErrProvider) {
			err = fmt.Errorf("%w: %s after %d attempt(s): %w", ErrProvider, op, attempt, err)
		}
		return nil, err
	}
	return resp, nil
}

// attempt performs one HTTP round trip.
func (c *Client) attempt(ctx context.Context, op, path string, params url.Values) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse tmdb url: %w", ErrProvider, err)
	}
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	latencyMs := float64(latency.Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordProviderRequest(op, "transport_error", latencyMs)
		return nil, fmt.Errorf("%w: execute request (latency=%v): %w", errTransport, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest(op, fmt.Sprintf("status_%d", resp.StatusCode), latencyMs)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordProviderRequest(op, "decode_error", latencyMs)
		return nil, fmt.Errorf("%w: %w: decode tmdb response: %w", ErrProvider, errDecode, err)
	}
	metrics.RecordProviderRequest(op, "ok", latencyMs)
	return &payload, nil
}
