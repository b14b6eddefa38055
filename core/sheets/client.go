package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client defines the interface for collaboration service operations.
type Client interface {
	// ListSheets returns summaries of every sheet the token can access.
	ListSheets(ctx context.Context) ([]SheetInfo, error)
	// GetSheet fetches a sheet with its columns and rows.
	GetSheet(ctx context.Context, sheetID int64) (*Sheet, error)
	// UpdateRows updates cells of existing rows in a single batch.
	UpdateRows(ctx context.Context, sheetID int64, rows []RowUpdate) error
	// AddRows appends rows to a sheet in a single batch.
	AddRows(ctx context.Context, sheetID int64, rows []NewRow) error
	// CopySheet clones a sheet's schema (not its data) under a new name
	// and returns the new sheet ID.
	CopySheet(ctx context.Context, sourceID int64, newName string) (int64, error)
}

// NewClient creates an HTTP client for the collaboration service.
// It fails when no token is configured: the token is the single required
// credential and its absence must abort before any API call is made.
func NewClient(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("sheets: API token is not set")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts so a stalled service call
	// cannot hang a scheduled run indefinitely.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Transport: transport},
	}, nil
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *httpClient) ListSheets(ctx context.Context) ([]SheetInfo, error) {
	var out struct {
		Data []SheetInfo `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "/sheets?includeAll=true", nil, &out); err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return out.Data, nil
}

func (c *httpClient) GetSheet(ctx context.Context, sheetID int64) (*Sheet, error) {
	var sheet Sheet
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/sheets/%d", sheetID), nil, &sheet); err != nil {
		return nil, fmt.Errorf("get sheet %d: %w", sheetID, err)
	}
	return &sheet, nil
}

func (c *httpClient) UpdateRows(ctx context.Context, sheetID int64, rows []RowUpdate) error {
	if len(rows) == 0 {
		return nil
	}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/sheets/%d/rows", sheetID), rows, nil); err != nil {
		return fmt.Errorf("update %d rows on sheet %d: %w", len(rows), sheetID, err)
	}
	return nil
}

func (c *httpClient) AddRows(ctx context.Context, sheetID int64, rows []NewRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/sheets/%d/rows", sheetID), rows, nil); err != nil {
		return fmt.Errorf("add %d rows to sheet %d: %w", len(rows), sheetID, err)
	}
	return nil
}

func (c *httpClient) CopySheet(ctx context.Context, sourceID int64, newName string) (int64, error) {
	body := map[string]string{"newName": newName}
	var out struct {
		Result struct {
			ID int64 `json:"id"`
		} `json:"result"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/sheets/%d/copy", sourceID), body, &out); err != nil {
		return 0, fmt.Errorf("copy sheet %d: %w", sourceID, err)
	}
	return out.Result.ID, nil
}

// call performs one JSON request/response round trip. Non-2xx responses are
// decoded into an *APIError carrying the service error code.
func (c *httpClient) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
