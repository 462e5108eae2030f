// Package enum lists the branches of a repository and the activity window of each.
package enum

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/schema"
	"golang.org/x/sync/errgroup"
)

// ErrNoCommits is returned when a branch log yields no commit lines.
var ErrNoCommits = errors.New("branch has no commits")

// Options controls how branches are enumerated.
type Options struct {
	IncludeRemotes bool   // Also list refs/remotes, skipping symbolic refs
	Workers        int    // Upper bound on concurrent git log calls
	Source         string // Identity used in cache keys (defaults to the repo path)
}

// branchRef is one line of for-each-ref output.
type branchRef struct {
	RefName   string
	ShortName string
	Hash      string
	SymRef    string
}

// ListBranches returns one activity record per branch in for-each-ref order.
func ListBranches(ctx context.Context, client contract.GitClient, repoPath string, opts Options) ([]schema.BranchActivity, error) {
	out, err := client.ListBranchRefs(ctx, repoPath, opts.IncludeRemotes)
	if err != nil {
		return nil, fmt.Errorf("failed to list branch refs: %w", err)
	}
	return collectBranches(ctx, client, repoPath, parseBranchRefs(out), opts.Workers)
}

// collectBranches reads every branch log concurrently. Results are written by index
// so the output order always matches refs.
func collectBranches(ctx context.Context, client contract.GitClient, repoPath string, refs []branchRef, workers int) ([]schema.BranchActivity, error) {
	results := make([]schema.BranchActivity, len(refs))
	if len(refs) == 0 {
		return results, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, ref := range refs {
		eg.Go(func() error {
			out, err := client.GetBranchLog(egCtx, repoPath, ref.RefName)
			if err != nil {
				return fmt.Errorf("failed to read log of %s: %w", ref.ShortName, err)
			}
			activity, err := parseBranchLog(ref.ShortName, out)
			if err != nil {
				return err
			}
			results[i] = activity
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseBranchRefs parses for-each-ref output, dropping blank lines and symbolic refs.
func parseBranchRefs(out []byte) []branchRef {
	var refs []branchRef
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, contract.FieldSeparator)
		ref := branchRef{RefName: parts[0], ShortName: parts[0]}
		if len(parts) > 1 && parts[1] != "" {
			ref.ShortName = parts[1]
		}
		if len(parts) > 2 {
			ref.Hash = parts[2]
		}
		if len(parts) > 3 {
			ref.SymRef = parts[3]
		}
		if ref.SymRef != "" {
			continue // e.g. origin/HEAD
		}
		refs = append(refs, ref)
	}
	return refs
}

// parseBranchLog folds a branch log into its activity window.
// The earliest commit supplies author and committer; on equal timestamps the
// commit listed last wins, which is the older one in git's traversal order.
func parseBranchLog(name string, out []byte) (schema.BranchActivity, error) {
	var (
		found             bool
		first, last       int64
		author, committer string
	)

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, contract.FieldSeparator, 3)
		if len(parts) != 3 {
			return schema.BranchActivity{}, fmt.Errorf("malformed log line for %s: %q", name, line)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return schema.BranchActivity{}, fmt.Errorf("invalid commit timestamp for %s: %w", name, err)
		}

		if !found || ts <= first {
			first = ts
			author, committer = parts[1], parts[2]
		}
		if !found || ts > last {
			last = ts
		}
		found = true
	}

	if !found {
		return schema.BranchActivity{}, fmt.Errorf("%s: %w", name, ErrNoCommits)
	}
	return schema.NewBranchActivity(name, author, committer, first, last), nil
}
