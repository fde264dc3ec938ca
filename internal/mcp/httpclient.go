package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// HTTPClient implements DataSource by calling the FitTribe REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) GetUserLogs(ctx context.Context, user string) ([]models.WorkoutLog, error) {
	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(user)+"/logs", nil)
	if err != nil {
		return nil, err
	}

	var logs []models.WorkoutLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode logs: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) GetTribeLogs(ctx context.Context, tribeID string) ([]models.WorkoutLog, error) {
	params := url.Values{}
	params.Set("tribe", tribeID)

	body, err := c.get(ctx, "/api/v1/team/logs", params)
	if err != nil {
		return nil, err
	}

	var logs []models.WorkoutLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode tribe logs: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) GetGamificationState(ctx context.Context, user string) (*models.UserGamificationState, error) {
	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(user)+"/state", nil)
	if err != nil {
		return nil, err
	}

	var state models.UserGamificationState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("httpclient: decode state: %w", err)
	}
	return &state, nil
}

func (c *HTTPClient) AllGamificationStates(ctx context.Context) (map[string]*models.UserGamificationState, error) {
	body, err := c.get(ctx, "/api/v1/states", nil)
	if err != nil {
		return nil, err
	}

	var states map[string]*models.UserGamificationState
	if err := json.Unmarshal(body, &states); err != nil {
		return nil, fmt.Errorf("httpclient: decode states: %w", err)
	}
	return states, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(id)+"/profile", nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return &profile, nil
}
