// ABOUTME: Strava API client: OAuth grants and activity listing.
// ABOUTME: Single-attempt requests; non-2xx responses surface as *APIError.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the production Strava API host.
	DefaultBaseURL = "https://www.strava.com"

	// OAuthScope covers profile reads plus all activities.
	OAuthScope = "read,activity:read_all"

	// ActivitiesPerPage is the single page size fetched per sync. Only
	// one page is ever requested; callers flag truncation when a full
	// page comes back.
	ActivitiesPerPage = 100
)

// APIError is a non-success response from Strava. Op distinguishes the
// token endpoint ("exchange", "refresh") from the activities endpoint
// ("activities").
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsAuthError reports whether err is an APIError from one of the OAuth
// token operations.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.Op == "exchange" || apiErr.Op == "refresh")
}

// Client talks to the Strava API for a single OAuth application.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClient creates a Client with the app's OAuth credentials.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      DefaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// AuthorizeURL builds the OAuth consent-screen redirect target.
func (c *Client) AuthorizeURL(redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", OAuthScope)
	return c.baseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for a token triple. The
// response includes the athlete object.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, "exchange", map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          code,
		"grant_type":    "authorization_code",
	})
}

// RefreshToken trades a refresh token for a new access/refresh pair.
// One attempt, no retry; the caller decides what to persist.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, "refresh", map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

func (c *Client) tokenRequest(ctx context.Context, op string, params map[string]string) (*TokenResponse, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readAPIError(op, resp)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &token, nil
}

// ListActivities fetches one page of up to ActivitiesPerPage summary
// activities for the token's athlete. A non-nil after restricts the page
// to activities started after that instant.
func (c *Client) ListActivities(ctx context.Context, accessToken string, after *time.Time) ([]Activity, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(ActivitiesPerPage))
	if after != nil {
		q.Set("after", strconv.FormatInt(after.Unix(), 10))
	}

	u := c.baseURL + "/api/v3/athlete/activities?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activities request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readAPIError("activities", resp)
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

func readAPIError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}
