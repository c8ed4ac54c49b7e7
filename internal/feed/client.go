// Package feed fetches the Met Éireann warnings feed over HTTP.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/eireweather/met-warnings-service/internal/domain"
	"github.com/eireweather/met-warnings-service/internal/observability"
)

// Client performs live requests against the warnings endpoint. No caching:
// every Fetch is one HTTP GET with a bounded timeout, guarded by a circuit
// breaker so a flapping upstream is not hammered every poll.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. The timeout bounds the whole request
// including body read, on top of any caller context deadline.
func NewClient(endpoint string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "met-warnings-feed",
		Timeout: 2 * timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("feed circuit breaker state change", "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Fetch performs one GET against the warnings endpoint and returns the raw
// warning batch, or a *FetchError classifying the failure. An empty array
// is a valid steady-state response, not an error.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawWarning, error) {
	start := time.Now()
	body, err := c.fetchBody(ctx)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			c.metrics.Fetches.WithLabelValues(string(fe.Kind)).Inc()
		}
		return nil, err
	}

	var raws []domain.RawWarning
	if err := json.Unmarshal(body, &raws); err != nil {
		c.metrics.Fetches.WithLabelValues(string(KindParse)).Inc()
		return nil, newFetchError(KindParse, fmt.Errorf("decode warnings feed: %w", err))
	}

	c.metrics.Fetches.WithLabelValues("success").Inc()
	return raws, nil
}

// fetchBody runs the request through the circuit breaker and returns the
// response body. Failures are already classified as *FetchError.
func (c *Client) fetchBody(ctx context.Context) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, newFetchError(KindCircuitOpen, err)
		}
		return nil, err
	}
	body, ok := result.([]byte)
	if !ok {
		return nil, newFetchError(KindConnection, errors.New("unexpected breaker result type"))
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, newFetchError(KindConnection, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return nil, &FetchError{Kind: KindBadStatus, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	return body, nil
}

// classifyTransportError splits client.Do failures into timeout versus
// connection kinds.
func classifyTransportError(err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newFetchError(KindTimeout, err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return newFetchError(KindTimeout, err)
	}
	return newFetchError(KindConnection, err)
}
