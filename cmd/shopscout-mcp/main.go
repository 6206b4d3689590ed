// Command shopscout-mcp exposes the shopscout HTTP API as MCP tools over
// stdio.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("SHOPSCOUT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Optional: only needed when the API has auth enabled.
	apiKey := os.Getenv("SHOPSCOUT_API_KEY")

	s := newServer(newClient(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(c *client) *server.MCPServer {
	s := server.NewMCPServer(
		"shopscout",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search e-commerce sites (AliExpress, Amazon Spain) for a product and return listings with title, price and image. Each site is searched in its own headless browser; a site that fails is reported without affecting the others. Searches take from several seconds up to a few minutes."),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("The product to search for, e.g. 'auriculares bluetooth'"),
		),
		mcp.WithString("site",
			mcp.Description("Search only this site ID (see list_sites). Default: all sites."),
		),
		mcp.WithString("format",
			mcp.Description("Result format: 'markdown' (default, one table per site) or 'json'"),
			mcp.Enum("markdown", "json"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Accept a cached result up to this many milliseconds old (multi-site searches only). Default: 0 (always search)."),
		),
	)
	s.AddTool(searchTool, c.handleSearch)

	listTool := mcp.NewTool("list_sites",
		mcp.WithDescription("List the sites shopscout can search."),
	)
	s.AddTool(listTool, c.handleListSites)

	snapshotTool := mcp.NewTool("get_snapshot",
		mcp.WithDescription("Return the listings saved by the last successful search of a site, without searching again."),
		mcp.WithString("site",
			mcp.Required(),
			mcp.Description("Site ID (see list_sites)"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: 'markdown' (default) or 'json'"),
			mcp.Enum("markdown", "json"),
		),
	)
	s.AddTool(snapshotTool, c.handleSnapshot)

	return s
}
