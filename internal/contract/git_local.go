package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Field and ref formats shared by the git client and the parsers in core/enum.
const (
	// FieldSeparator separates fields within one line of git output.
	FieldSeparator = "\x1f"

	// branchRefFormat yields refname, short name, tip hash and symref target per line.
	branchRefFormat = "%(refname)%1f%(refname:short)%1f%(objectname)%1f%(symref)"

	// branchLogFormat yields committer epoch, author name and committer name per commit.
	branchLogFormat = "--format=%ct%x1f%an%x1f%cn"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	// Never block on a credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("git %s interrupted: %w", firstArg(args), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
// For bare repositories (such as mirrors) the git directory itself is returned.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--is-bare-repository")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(out)) == "true" {
		gitDir, err := c.Run(ctx, contextPath, "rev-parse", "--absolute-git-dir")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(gitDir)), nil
	}
	out, err = c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CloneMirror implements the GitClient interface.
func (c *LocalGitClient) CloneMirror(ctx context.Context, url string, dest string) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create clone parent %q: %w", parent, err)
	}
	// "--" keeps a source starting with '-' from being read as an option
	_, err := c.Run(ctx, parent, "clone", "--mirror", "--quiet", "--", url, dest)
	return err
}

// UpdateMirror implements the GitClient interface.
func (c *LocalGitClient) UpdateMirror(ctx context.Context, repoPath string) error {
	_, err := c.Run(ctx, repoPath, "remote", "update", "--prune")
	return err
}

// ListBranchRefs implements the GitClient interface.
func (c *LocalGitClient) ListBranchRefs(ctx context.Context, repoPath string, includeRemotes bool) ([]byte, error) {
	args := []string{
		"for-each-ref",
		"--format=" + branchRefFormat,
		"refs/heads",
	}
	if includeRemotes {
		args = append(args, "refs/remotes")
	}
	return c.Run(ctx, repoPath, args...)
}

// GetBranchLog implements the GitClient interface.
func (c *LocalGitClient) GetBranchLog(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	args := []string{
		"log",
		branchLogFormat,
		ref,
		"--",
	}
	return c.Run(ctx, repoPath, args...)
}

// firstArg returns the git subcommand for error messages.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
