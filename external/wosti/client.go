// Package wosti fetches the popular-matches feed served by the Wosti
// football API.
package wosti

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
	"github.com/golazo-app/predictions-api/internal/platform/resilience"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

const (
	defaultBaseURL     = "https://wosti-futbol-tv-spain.p.rapidapi.com"
	defaultPath        = "/api/Events"
	rapidAPIKeyHeader  = "x-rapidapi-key"
	rapidAPIHostHeader = "x-rapidapi-host"
	maxResponseBytes   = 4 << 20
)

var errWostiTransient = crerr.New("wosti transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchPopularMatches returns the provider payload verbatim after
// checking it is well-formed JSON. Callers cache the raw bytes.
func (c *Client) FetchPopularMatches(ctx context.Context) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: popular matches API key is missing", usecase.ErrProviderNotConfigured)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "wosti circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: popular matches provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(defaultPath, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+defaultPath)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errWostiTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var probe any
	if err := sonic.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("provider returned malformed JSON: %w", err)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	host := strings.TrimPrefix(strings.TrimPrefix(c.baseURL, "https://"), "http://")

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(rapidAPIKeyHeader, c.apiKey)
		req.Header.Set(rapidAPIHostHeader, host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errWostiTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errWostiTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: provider status=%d", errWostiTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "wosti request failed", "error", lastErr)
	return nil, lastErr
}
