package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/report"
)

// client calls the shopscout HTTP API.
type client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func newClient(apiURL, apiKey string) *client {
	return &client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		// A full search can run several site pipelines back to back.
		http: &http.Client{Timeout: 10 * time.Minute},
	}
}

// do sends a request and decodes the JSON body into out. The HTTP status
// is returned so callers can tell API errors from transport errors.
func (c *client) do(ctx context.Context, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func (c *client) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil || strings.TrimSpace(term) == "" {
		return mcp.NewToolResultError("term is required"), nil
	}
	siteID := request.GetString("site", "")
	format := request.GetString("format", report.FormatMarkdown)

	path := "/api/v1/search"
	if siteID != "" {
		path = "/api/v1/sites/" + siteID + "/search"
	}
	payload := models.SearchRequest{Term: term, MaxAge: int(request.GetFloat("max_age", 0))}

	var resp models.SearchResponse
	status, err := c.do(ctx, http.MethodPost, path, payload, &resp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Single-site failures come back as non-2xx with the site entry set;
	// render those like any other result.
	if resp.Error != nil && len(resp.Sites) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %s (HTTP %d)", resp.Error.Code, resp.Error.Message, status)), nil
	}

	return render(format, &resp)
}

func (c *client) handleListSites(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp models.SitesResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/sites", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, s := range resp.Sites {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", s.ID, s.Name, s.SearchURL)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *client) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	siteID, err := request.RequireString("site")
	if err != nil {
		return mcp.NewToolResultError("site is required"), nil
	}
	format := request.GetString("format", report.FormatMarkdown)

	// Error bodies share the SearchResponse shape, so decode into a
	// union of both.
	var raw struct {
		models.Snapshot
		Error *models.ErrorDetail `json:"error"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/snapshots/"+siteID, nil, &raw); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if raw.Error != nil {
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", raw.Error.Code, raw.Error.Message)), nil
	}

	views := make([]models.ListingView, 0, len(raw.Listings))
	for _, l := range raw.Listings {
		views = append(views, models.NewListingView(l))
	}
	resp := &models.SearchResponse{
		Success: true,
		Term:    siteID + " snapshot of " + raw.SavedAt.Format(time.RFC3339),
		Sites:   map[string]models.SiteResult{siteID: {Listings: views, Count: len(views)}},
	}
	return render(format, resp)
}

func render(format string, resp *models.SearchResponse) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	w, err := report.New(format, &buf)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := w.Write(resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
