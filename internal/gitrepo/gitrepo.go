// Package gitrepo turns a repository source into a local path that git can query.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
)

// Options controls how a source is opened.
type Options struct {
	IsLocal      bool          // Source is an existing directory
	CloneDir     string        // Keep mirrors here instead of a temp dir
	CloneTimeout time.Duration // Upper bound for clone or fetch; zero means none
}

// Handle is an opened repository. Close releases any temporary clone.
type Handle struct {
	path    string
	source  string
	tempDir string
}

// Path returns the directory git commands should run against.
func (h *Handle) Path() string { return h.path }

// Source returns the source the handle was opened from.
func (h *Handle) Source() string { return h.source }

// Close removes the temporary clone, if any. Calling it twice is safe.
func (h *Handle) Close() error {
	if h == nil || h.tempDir == "" {
		return nil
	}
	dir := h.tempDir
	h.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove temporary clone %s: %w", dir, err)
	}
	return nil
}

// Open resolves source to a queryable repository.
// Local directories are opened in place. Anything else is mirror-cloned.
func Open(ctx context.Context, client contract.GitClient, source string, opts Options) (*Handle, error) {
	if source == "" {
		return nil, errors.New("empty repository source")
	}

	if opts.IsLocal {
		root, err := client.GetRepoRoot(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("not a git repository: %w", err)
		}
		return &Handle{path: root, source: source}, nil
	}

	if opts.CloneTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.CloneTimeout)
		defer cancel()
	}

	if opts.CloneDir != "" {
		return openCached(ctx, client, source, opts.CloneDir)
	}
	return openTemp(ctx, client, source)
}

// openTemp mirrors source into a fresh temp directory owned by the handle.
func openTemp(ctx context.Context, client contract.GitClient, source string) (*Handle, error) {
	tempDir, err := os.MkdirTemp("", "branchreport-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	dest := filepath.Join(tempDir, contract.SanitizeSourceName(source))
	if err := client.CloneMirror(ctx, source, dest); err != nil {
		_ = os.RemoveAll(tempDir)
		return nil, err
	}
	return &Handle{path: dest, source: source, tempDir: tempDir}, nil
}

// openCached reuses a mirror under cloneDir, refreshing it, or creates it.
func openCached(ctx context.Context, client contract.GitClient, source, cloneDir string) (*Handle, error) {
	dest := filepath.Join(cloneDir, contract.SanitizeSourceName(source))

	if isMirror(dest) {
		if err := client.UpdateMirror(ctx, dest); err != nil {
			return nil, fmt.Errorf("failed to refresh mirror %s: %w", dest, err)
		}
		return &Handle{path: dest, source: source}, nil
	}

	if err := os.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("failed to reset clone dir %s: %w", dest, err)
	}
	if err := client.CloneMirror(ctx, source, dest); err != nil {
		_ = os.RemoveAll(dest)
		return nil, err
	}
	return &Handle{path: dest, source: source}, nil
}

// isMirror reports whether dir looks like a bare repository.
func isMirror(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "HEAD"))
	return err == nil && !info.IsDir()
}
