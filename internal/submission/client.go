package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/presentation"
)

// ErrServer is any non-success answer the API does not explain.
var ErrServer = errors.New("server error")

// Client talks to the ProfilePilot HTTP API.
type Client struct {
	BaseURL string
	APIKey  string
	UserID  string // sent as X-User-Id when the server trusts a gateway header
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		// generation may take up to a minute server side
		HTTP: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *Client) CreateAnalysis(ctx context.Context, req analysis.Request) (analysis.ID, error) {
	var out struct {
		AnalysisID analysis.ID `json:"analysisId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/analyze", req, &out); err != nil {
		return "", err
	}
	if out.AnalysisID == "" {
		return "", fmt.Errorf("%w: empty analysis id", ErrServer)
	}
	return out.AnalysisID, nil
}

func (c *Client) GetDashboard(ctx context.Context, id analysis.ID) (presentation.Dashboard, error) {
	var d presentation.Dashboard
	err := c.do(ctx, http.MethodGet, "/api/analyses/"+url.PathEscape(string(id)), nil, &d)
	return d, err
}

func (c *Client) ListAnalyses(ctx context.Context, page, pageSize int) (analysis.PaginatedResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	var out analysis.PaginatedResult
	err := c.do(ctx, http.MethodGet, "/api/analyses?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) Roles(ctx context.Context) ([]string, error) {
	var out struct {
		Roles []string `json:"roles"`
	}
	err := c.do(ctx, http.MethodGet, "/api/roles", nil, &out)
	return out.Roles, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if c.UserID != "" {
		req.Header.Set("X-User-Id", c.UserID)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	var apiErr struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &analysis.ValidationError{Fields: apiErr.Fields}
	case http.StatusUnauthorized:
		return analysis.ErrAuthRequired
	case http.StatusNotFound:
		return analysis.ErrNotFound
	}
	return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
}
