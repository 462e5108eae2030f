package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/huangsam/branchreport/core"
	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patrickmn/go-cache"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
	memo    *cache.Cache
}

// requestConfig derives the per-call config from the base config and tool arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("source", ""); s != "" {
		contract.ResolveSource(cfg, s)
	}
	cfg.IncludeRemotes = request.GetBool("remotes", cfg.IncludeRemotes)
	return cfg
}

// reports returns the branch report for cfg, served from the memo when fresh.
func (h *toolHandler) reports(ctx context.Context, cfg *contract.Config) ([]schema.BranchReport, error) {
	key := cfg.Source + "|" + strconv.FormatBool(cfg.IncludeRemotes)
	if cached, ok := h.memo.Get(key); ok {
		if reports, ok := cached.([]schema.BranchReport); ok {
			return reports, nil
		}
	}

	reports, err := core.GetBranchReports(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return nil, err
	}
	h.memo.Set(key, reports, cache.DefaultExpiration)
	return reports, nil
}

func (h *toolHandler) handleGetBranchReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)

	reports, err := h.reports(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("branch report failed: %v", err)), nil
	}

	text, err := core.MarshalReport(reports)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandler) handleGetBranchNames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)

	reports, err := h.reports(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("branch listing failed: %v", err)), nil
	}

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Name
	}
	jsonData, _ := json.MarshalIndent(names, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
