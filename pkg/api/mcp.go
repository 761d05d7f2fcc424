package api

import (
	"strings"

	"github.com/hazyhaar/company-intel/pkg/kit"
	"github.com/hazyhaar/company-intel/pkg/rundb"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the three company-intel MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, runs *rundb.DB) {
	registerNormalizeName(srv)
	registerDedupeNames(srv)
	registerListRuns(srv, runs)
}

func registerNormalizeName(srv *server.MCPServer) {
	tool := mcp.NewTool("normalize_name",
		mcp.WithDescription("Compute the canonical form of a company name (case/whitespace folding, parenthesis unwrapping, legal suffix stripping)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The raw company name")),
		mcp.WithBoolean("keep_suffixes", mcp.Description("Keep legal-entity suffixes (LTD, PLC, INC, ...) instead of stripping them")),
	)

	kit.RegisterMCPTool(srv, tool, normalizeTermEndpoint(), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		name, _ := args["name"].(string)
		keep, _ := args["keep_suffixes"].(bool)
		return &kit.MCPDecodeResult{Request: &normalizeReq{Name: name, KeepSuffixes: keep}}, nil
	})
}

func registerDedupeNames(srv *server.MCPServer) {
	tool := mcp.NewTool("dedupe_names",
		mcp.WithDescription("Deduplicate a list of company names (up to 100) by canonical form, keeping the first occurrence of each."),
		mcp.WithString("names", mcp.Required(), mcp.Description("Comma-separated list of company names")),
		mcp.WithBoolean("keep_suffixes", mcp.Description("Keep legal-entity suffixes when computing keys")),
	)

	endpoint := dedupeEndpoint()
	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		namesStr, _ := args["names"].(string)
		keep, _ := args["keep_suffixes"].(bool)

		rows := [][]string{}
		for _, n := range strings.Split(namesStr, ",") {
			rows = append(rows, []string{strings.TrimSpace(n)})
		}
		return &kit.MCPDecodeResult{Request: &dedupeReq{
			Columns:      []string{"company_name"},
			Rows:         rows,
			KeepSuffixes: keep,
		}}, nil
	})
}

func registerListRuns(srv *server.MCPServer, runs *rundb.DB) {
	tool := mcp.NewTool("list_runs",
		mcp.WithDescription("List recent dedup runs with row counts, status, and timing."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default 50)")),
	)

	kit.RegisterMCPTool(srv, tool, listRunsEndpoint(runs), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		limit, _ := args["limit"].(float64)
		return &kit.MCPDecodeResult{Request: &listRunsReq{Limit: int(limit)}}, nil
	})
}
