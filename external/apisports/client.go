package apisports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
	"github.com/golazo-app/predictions-api/internal/platform/resilience"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

const (
	defaultBaseURL     = "https://v3.football.api-sports.io"
	apiKeyHeader       = "x-apisports-key"
	maxResponseBytes   = 6 << 20
	defaultHTTPTimeout = 20 * time.Second
)

var errAPISportsTransient = crerr.New("api-sports transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client calls the api-sports football API. The API key is checked at
// call time, not construction, so a misconfigured deployment fails loudly
// on its first sync attempt instead of at boot.
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
		httpClient.Timeout = defaultHTTPTimeout
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
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

var dateParamRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FetchFixturesByDate returns the provider's fixtures for one UTC
// calendar date. Concurrent calls for the same date share one request.
func (c *Client) FetchFixturesByDate(ctx context.Context, date string) ([]usecase.ExternalMatch, error) {
	date = strings.TrimSpace(date)
	if !dateParamRegex.MatchString(date) {
		return nil, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: fixtures API key is missing", usecase.ErrProviderNotConfigured)
	}

	raw, err := c.doJSONKeyed(ctx, "/fixtures?"+url.Values{"date": {date}}.Encode())
	if err != nil {
		return nil, err
	}

	var envelope fixturesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, usecase.WithStep(usecase.StepAPIJSON, fmt.Errorf("decode fixtures payload: %w", err))
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.ID <= 0 {
			c.logger.WarnContext(ctx, "skip fixture without provider id", "date", date)
			continue
		}
		kickoff, ok := item.Fixture.kickoff()
		if !ok {
			c.logger.WarnContext(ctx, "skip fixture without kickoff", "date", date, "fixture_id", item.Fixture.ID)
			continue
		}

		out = append(out, usecase.ExternalMatch{
			FixtureID:        item.Fixture.ID,
			KickoffAt:        kickoff,
			StatusShort:      strings.TrimSpace(item.Fixture.Status.Short),
			HomeTeam:         strings.TrimSpace(item.Teams.Home.Name),
			HomeLogo:         strings.TrimSpace(item.Teams.Home.Logo),
			AwayTeam:         strings.TrimSpace(item.Teams.Away.Name),
			AwayLogo:         strings.TrimSpace(item.Teams.Away.Logo),
			HomeScore:        item.Goals.Home,
			AwayScore:        item.Goals.Away,
			LeagueExternalID: item.League.ID,
			LeagueName:       strings.TrimSpace(item.League.Name),
			LeagueLogo:       strings.TrimSpace(item.League.Logo),
			LeagueCountry:    strings.TrimSpace(item.League.Country),
			LeagueSeason:     item.League.Season,
		})
	}

	return out, nil
}

func (c *Client) doJSONKeyed(ctx context.Context, pathAndQuery string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-sports circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: fixtures provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(pathAndQuery, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+pathAndQuery)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errAPISportsTransient) {
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
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, usecase.WithStep(usecase.StepAPIFetch, fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = usecase.WithStep(usecase.StepAPIFetch,
				fmt.Errorf("%w: send request: %s", errAPISportsTransient, sanitizeSensitiveText(err.Error(), c.apiKey)))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = usecase.WithStep(usecase.StepAPIFetch,
					fmt.Errorf("%w: read response body: %v", errAPISportsTransient, readErr))
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = usecase.WithStep(usecase.StepAPIResponse,
					fmt.Errorf("%w: provider status=%d body=%s", errAPISportsTransient, resp.StatusCode, abbreviateBody(raw)))
			default:
				lastErr = usecase.WithStep(usecase.StepAPIResponse,
					fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
				return nil, lastErr
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = usecase.WithStep(usecase.StepAPIFetch, fmt.Errorf("provider request failed"))
	}
	c.logger.WarnContext(ctx, "api-sports request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" || secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
