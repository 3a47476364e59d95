// Package supabase verifies access tokens against a Supabase auth
// endpoint and resolves them to request principals.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golazo-app/predictions-api/internal/domain/user"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

type Client struct {
	httpClient *http.Client
	userURL    string
	anonKey    string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL, anonKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		userURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/") + "/auth/v1/user",
		anonKey:    strings.TrimSpace(anonKey),
		logger:     logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return user.Principal{}, fmt.Errorf("create user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("request user from supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read user response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "supabase user lookup non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("supabase user lookup failed with status %d", resp.StatusCode)
	}

	var decoded userResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal user response: %w", err)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return user.Principal{}, fmt.Errorf("invalid user response: id is empty")
	}

	return user.Principal{
		UserID: decoded.ID,
		Email:  decoded.Email,
	}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
