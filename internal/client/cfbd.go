package client

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

	"cfb_analytics/cfbsync/internal/metrics"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the CollegeFootballData API root.
const DefaultBaseURL = "https://api.collegefootballdata.com"

// CFBD endpoints consumed by the sync
const (
	EndpointGames          = "/games"
	EndpointDrives         = "/drives"
	EndpointPlays          = "/plays"
	EndpointRecruiting     = "/recruiting/players"
	EndpointTransferPortal = "/player/portal"
)

// Query parameter names
const (
	ParamYear       = "year"
	ParamTeam       = "team"
	ParamWeek       = "week"
	ParamSeasonType = "seasonType"
)

// SeasonTypePostseason selects bowl and playoff games.
const SeasonTypePostseason = "postseason"

// Params holds query parameters for a single request
type Params map[string]string

// Year returns a copy of p with the year parameter set
func (p Params) Year(year int) Params {
	return p.With(ParamYear, strconv.Itoa(year))
}

// With returns a copy of p with key set to value
func (p Params) With(key, value string) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// String renders the params as an encoded query string, keys sorted
func (p Params) String() string {
	q := url.Values{}
	for k, v := range p {
		q.Set(k, v)
	}
	return q.Encode()
}

// Client is the CollegeFootballData API client.
// It holds no state between calls and never retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new CFBD API client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch requests endpoint with params and decodes the JSON array response.
// Numbers are kept as json.Number so identifiers survive unchanged.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) ([]map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	body, status, err := c.get(ctx, endpoint, params)
	metrics.RecordAPICall(endpoint, statusLabel(status, err), time.Since(start).Seconds())
	if err != nil {
		return nil, &RemoteRequestError{Endpoint: endpoint, Params: params, StatusCode: status, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var records []map[string]interface{}
	if err := dec.Decode(&records); err != nil {
		return nil, &RemoteRequestError{
			Endpoint:   endpoint,
			Params:     params,
			StatusCode: status,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return records, nil
}

// get performs a single GET request and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, endpoint string, params Params) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if len(params) > 0 {
		req.URL.RawQuery = params.String()
	}

	log.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("API request successful")

	return body, resp.StatusCode, nil
}

func statusLabel(status int, err error) string {
	if status != 0 {
		return strconv.Itoa(status)
	}
	if err != nil {
		return "error"
	}
	return "ok"
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
