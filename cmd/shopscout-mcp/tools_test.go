package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/models"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	price := 12.99
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/search", func(w http.ResponseWriter, r *http.Request) {
		var req models.SearchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(models.SearchResponse{
			Success: true,
			Term:    req.Term,
			Sites: map[string]models.SiteResult{
				"amazon": {Count: 1, Listings: []models.ListingView{{
					Listing: models.Listing{ID: "1", Title: "Auriculares", RawPrice: "12,99", ImageURL: "https://img.test/a.jpg"},
					Price:   &price,
				}}},
			},
		})
	})
	mux.HandleFunc("POST /api/v1/sites/ebay/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.SearchResponse{
			Error: &models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "unknown site: ebay"},
		})
	})
	mux.HandleFunc("GET /api/v1/sites", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(models.SitesResponse{Sites: []models.SiteInfo{
			{ID: "amazon", Name: "Amazon", SearchURL: "https://www.amazon.es/"},
		}})
	})
	mux.HandleFunc("GET /api/v1/snapshots/amazon", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Snapshot{
			Site:     "amazon",
			Listings: []models.Listing{{Title: "Auriculares", RawPrice: "12,99", ImageURL: "https://img.test/a.jpg"}},
			SavedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content %T", c)
		return ""
	}
}

func TestHandleSearch(t *testing.T) {
	t.Parallel()

	c := newClient(fakeAPI(t).URL, "")

	res, err := c.handleSearch(context.Background(), callRequest(map[string]any{"term": "auriculares"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	text := resultText(t, res)
	if !strings.Contains(text, "## amazon") || !strings.Contains(text, "12.99") {
		t.Errorf("markdown result missing data:\n%s", text)
	}

	res, _ = c.handleSearch(context.Background(), callRequest(map[string]any{"term": "auriculares", "format": "json"}))
	var decoded models.SearchResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &decoded); err != nil {
		t.Fatalf("json result: %v", err)
	}

	res, _ = c.handleSearch(context.Background(), callRequest(map[string]any{"term": "auriculares", "site": "ebay"}))
	if !res.IsError || !strings.Contains(resultText(t, res), models.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND tool error, got %+v", res)
	}

	res, _ = c.handleSearch(context.Background(), callRequest(map[string]any{"term": "  "}))
	if !res.IsError {
		t.Error("blank term should be a tool error")
	}
}

func TestHandleListSitesAndSnapshot(t *testing.T) {
	t.Parallel()

	c := newClient(fakeAPI(t).URL+"/", "")

	res, err := c.handleListSites(context.Background(), callRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("list_sites failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "amazon\tAmazon") {
		t.Errorf("list_sites = %q", resultText(t, res))
	}

	res, err = c.handleSnapshot(context.Background(), callRequest(map[string]any{"site": "amazon"}))
	if err != nil || res.IsError {
		t.Fatalf("get_snapshot failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Auriculares") {
		t.Errorf("snapshot = %q", resultText(t, res))
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	if newServer(newClient("http://127.0.0.1:0", "")) == nil {
		t.Fatal("expected server")
	}
}
