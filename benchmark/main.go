// Package main provides a performance benchmarking tool for the branchreport CLI.
// It measures how long a branch report takes across repositories of different sizes,
// running each repository multiple times, treating the first successful cached run as cold
// and averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - branchreport binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of one repository (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Scope       string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
}

// scopes are the branch selections benchmarked for every repository.
var scopes = []struct {
	name string
	args []string
}{
	{"local", nil},
	{"remotes", []string{"--remotes"}},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     14,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("branchreport", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the branchreport binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("branchreport"); err != nil {
		return errors.New("branchreport binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes every scope across the configured repositories.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, scope := range scopes {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, scope.name, scope.args))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for one scope.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, scope string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s branches on %s\n", scope, repo)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Scope:       scope,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs the branches command numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, repoPath string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"branches", repoPath, "--cache-backend", cacheBackend, "--workers", fmt.Sprint(config.Workers)}
	args = append(args, extraArgs...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "branchreport", args...).Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that stdout carries a JSON array.
func isSuccess(output []byte) bool {
	output = bytes.TrimSpace(output)
	return bytes.HasPrefix(output, []byte("[")) && bytes.HasSuffix(output, []byte("]"))
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/branchreport_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "scope", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Scope, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by scope.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, scope := range scopes {
		fmt.Printf("Branches (%s):\n", scope.name)
		for _, result := range results {
			if result.Scope == scope.name {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
