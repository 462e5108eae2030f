// Package core has core logic for building branch reports.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/outwriter"
	"github.com/huangsam/branchreport/schema"
)

// ExecuteBranchReport builds the branch report for cfg.Source and writes it
// in the configured output format. It serves as the entry point for 'branches'.
func ExecuteBranchReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	reports, err := runBranchReport(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return printReport(reports, cfg, duration)
}

// printReport writes reports in the configured format. JSON goes through
// MarshalReport so a serialization failure surfaces as SerializationError.
func printReport(reports []schema.BranchReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.TextOut, schema.CSVOut, schema.ParquetOut:
		return outwriter.PrintBranchReports(reports, cfg, duration)
	}
	text, err := MarshalReport(reports)
	if err != nil {
		return err
	}
	return outwriter.PrintReportJSON(text, cfg)
}

// GetBranchReports builds the report without printing anything. Used by the MCP server.
func GetBranchReports(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.BranchReport, error) {
	return runBranchReport(withSuppressHeader(ctx), cfg, client, mgr)
}

// runBranchReport performs the pipeline and records the run in history.
func runBranchReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.BranchReport, error) {
	if !shouldSuppressHeader(ctx) {
		logReportHeader(cfg)
	}

	startTime := time.Now()
	reports, repoPath, err := assemble(ctx, cfg.Source, newGitAccess(client, cfg), newGitEnumerator(client, cfg, mgr))
	if err != nil {
		return nil, err
	}

	if mgr != nil {
		recordHistory(mgr.GetHistoryStore(), startTime, cfg.Source, repoPath, reports)
	}
	return reports, nil
}

// recordHistory stores a finished run. Failures are only warnings.
func recordHistory(store contract.HistoryStore, startTime time.Time, source, repoPath string, reports []schema.BranchReport) {
	if store == nil {
		return
	}

	runID, err := store.BeginRun(startTime, source, repoPath)
	if err != nil {
		contract.LogWarn("Report history initialization failed", err)
		return
	}
	if err := store.RecordBranches(runID, reports); err != nil {
		contract.LogWarn("Failed to record branches", err)
	}
	if err := store.EndRun(runID, time.Now(), len(reports)); err != nil {
		contract.LogWarn("Failed to finalize report history", err)
	}
}

// logReportHeader prints a concise header to stderr so stdout carries only the report.
func logReportHeader(cfg *contract.Config) {
	scope := "local"
	if cfg.IncludeRemotes {
		scope = "local + remote"
	}
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(os.Stderr, "🔎 Repo: %s\n", cfg.Source)
		_, _ = fmt.Fprintf(os.Stderr, "🌿 Branches: %s (workers: %d)\n", scope, cfg.Workers)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Repo: %s\n", cfg.Source)
	_, _ = fmt.Fprintf(os.Stderr, "Branches: %s (workers: %d)\n", scope, cfg.Workers)
}
