package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/libsearch/internal/catalog"
)

func (s *Server) listHandler(kind catalog.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := s.store.List(ctx, kind)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing %s failed: %v", kind, err)), nil
		}

		if limit := request.GetInt("limit", 0); limit > 0 && limit < len(items) {
			items = items[:limit]
		}
		if len(items) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No %s in the catalog. Run `libsearch import` to load some.", kind)), nil
		}

		out, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding %s: %v", kind, err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
