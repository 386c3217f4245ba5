package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"papertrading/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 200 * time.Millisecond
	defaultRetryMaxBackoff = 2 * time.Second
	defaultTimeout         = 15 * time.Second
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// WriteResult is the body returned by every write endpoint.
type WriteResult struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// Client talks to the paper trading API on behalf of one session.
type Client struct {
	sessionID string
	http      *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()
	return code >= 500 && code <= 599 && code != http.StatusServiceUnavailable
}

// New builds a client for baseURL (for example http://localhost:3001/api).
// An empty sessionID selects the default session.
func New(baseURL, sessionID string, timeout time.Duration) *Client {
	if sessionID == "" {
		sessionID = model.DefaultSessionID
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &Client{sessionID: sessionID, http: httpClient}
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// ForSession returns a client bound to another session, sharing the transport.
func (c *Client) ForSession(sessionID string) *Client {
	return &Client{sessionID: sessionID, http: c.http}
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req = req.SetQueryParams(query)
	}
	if body != nil {
		req = req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return resp, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return resp, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}

	return resp, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/sessions/" + c.sessionID + suffix
}

func limitQuery(limit int, extra map[string]string) map[string]string {
	query := make(map[string]string)
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	for k, v := range extra {
		if v != "" {
			query[k] = v
		}
	}
	return query
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// IsBackendAvailable reports whether the API answers its health check.
func (c *Client) IsBackendAvailable(ctx context.Context) bool {
	status, err := c.Health(ctx)
	if err != nil {
		logger.WithError(err).Debug("paper trading backend unavailable")
		return false
	}
	return status.Status == "healthy"
}

func (c *Client) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	var sessions []model.SessionSummary
	_, err := c.do(ctx, http.MethodGet, "/sessions", nil, nil, &sessions)
	return sessions, err
}

func (c *Client) CreateSession(ctx context.Context, payload model.CreateSessionPayload) (*WriteResult, error) {
	var res WriteResult
	if _, err := c.do(ctx, http.MethodPost, "/sessions", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetConfig returns nil when the session has no saved configuration.
func (c *Client) GetConfig(ctx context.Context) (*model.TradingConfig, error) {
	var cfg model.TradingConfig
	if _, err := c.do(ctx, http.MethodGet, c.sessionPath("/config"), nil, nil, &cfg); err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (c *Client) SaveConfig(ctx context.Context, payload model.SaveConfigPayload) (*WriteResult, error) {
	return c.write(ctx, c.sessionPath("/config"), payload)
}

// GetPortfolio returns nil when no snapshot was saved yet.
func (c *Client) GetPortfolio(ctx context.Context) (*model.PortfolioState, error) {
	var state model.PortfolioState
	if _, err := c.do(ctx, http.MethodGet, c.sessionPath("/portfolio"), nil, nil, &state); err != nil {
		return nil, err
	}
	if state.ID == 0 {
		return nil, nil
	}
	return &state, nil
}

func (c *Client) SavePortfolio(ctx context.Context, payload model.SavePortfolioPayload) (*WriteResult, error) {
	return c.write(ctx, c.sessionPath("/portfolio"), payload)
}

func (c *Client) PortfolioHistory(ctx context.Context, limit int) ([]model.PortfolioState, error) {
	var history []model.PortfolioState
	_, err := c.do(ctx, http.MethodGet, c.sessionPath("/portfolio/history"), limitQuery(limit, nil), nil, &history)
	return history, err
}

func (c *Client) ListTrades(ctx context.Context, limit int, side string) ([]model.Trade, error) {
	var trades []model.Trade
	query := limitQuery(limit, map[string]string{"side": side})
	_, err := c.do(ctx, http.MethodGet, c.sessionPath("/trades"), query, nil, &trades)
	return trades, err
}

func (c *Client) SaveTrade(ctx context.Context, payload model.SaveTradePayload) (*WriteResult, error) {
	return c.write(ctx, c.sessionPath("/trades"), payload)
}

func (c *Client) ListLogs(ctx context.Context, limit int, logType string) ([]model.AgentLog, error) {
	var logs []model.AgentLog
	query := limitQuery(limit, map[string]string{"type": logType})
	_, err := c.do(ctx, http.MethodGet, c.sessionPath("/logs"), query, nil, &logs)
	return logs, err
}

func (c *Client) SaveLog(ctx context.Context, payload model.SaveLogPayload) (*WriteResult, error) {
	return c.write(ctx, c.sessionPath("/logs"), payload)
}

func (c *Client) Analytics(ctx context.Context) (*model.Analytics, error) {
	var report model.Analytics
	if _, err := c.do(ctx, http.MethodGet, c.sessionPath("/analytics"), nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Export returns the raw export document so callers can store it verbatim.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.sessionPath("/export"), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) CacheFees(ctx context.Context, payload model.CacheFeesPayload) (*WriteResult, error) {
	return c.write(ctx, "/exchange-fees", payload)
}

// GetFees returns nil when nothing is cached for the pair.
func (c *Client) GetFees(ctx context.Context, exchange, asset string) (*model.ExchangeFee, error) {
	var fee model.ExchangeFee
	if _, err := c.do(ctx, http.MethodGet, "/exchange-fees/"+exchange+"/"+asset, nil, nil, &fee); err != nil {
		return nil, err
	}
	if fee.ID == 0 {
		return nil, nil
	}
	return &fee, nil
}

func (c *Client) write(ctx context.Context, path string, payload interface{}) (*WriteResult, error) {
	var res WriteResult
	if _, err := c.do(ctx, http.MethodPost, path, nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
