package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listLibsTool = mcp.NewTool("list_libs",
	mcp.WithDescription("List the libraries in the catalog as a JSON array."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of libraries to return (default: all)"),
	),
)

var listReposTool = mcp.NewTool("list_repos",
	mcp.WithDescription("List the repositories in the catalog as a JSON array."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of repositories to return (default: all)"),
	),
)
