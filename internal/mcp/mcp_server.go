// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/patrickmn/go-cache"
)

// Report memo settings. Agents tend to ask about the same repository repeatedly.
const (
	memoTTL     = 5 * time.Minute
	memoCleanup = 10 * time.Minute
)

// NewMCPServer initializes and configures the branch report MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Branch Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
		memo:    cache.New(memoTTL, memoCleanup),
	}

	// --- 1. Tool: get_branch_report ---
	s.AddTool(mcp.NewTool("get_branch_report",
		mcp.WithDescription("List every branch of a Git repository with its author, committer and first/last commit times."),
		mcp.WithString("source", mcp.Description("Local path or clone URL of the repository (defaults to the configured source).")),
		mcp.WithBoolean("remotes", mcp.Description("Include remote-tracking branches.")),
	), h.handleGetBranchReport)

	// --- 2. Tool: get_branch_names ---
	s.AddTool(mcp.NewTool("get_branch_names",
		mcp.WithDescription("List only the branch names of a Git repository."),
		mcp.WithString("source", mcp.Description("Local path or clone URL of the repository.")),
		mcp.WithBoolean("remotes", mcp.Description("Include remote-tracking branches.")),
	), h.handleGetBranchNames)

	return s
}

// StartMCPServer starts the branch report MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, contract.NewLocalGitClient(), mgr)
	return server.ServeStdio(s)
}
