package contract

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// Epochs of the commits written by InitFixtureRepo.
const (
	FixtureFirstEpoch   int64 = 1610519809 // main and feature/login root commit
	FixtureMainEpoch    int64 = 1610541520 // main tip
	FixtureFeatureEpoch int64 = 1610600000 // feature/login tip
)

// SkipIfGitNotAvailable skips the test if git binary is not found in PATH.
func SkipIfGitNotAvailable(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// RunFixtureGit runs git in dir with an isolated config and fails the test on error.
func RunFixtureGit(t testing.TB, dir string, env []string, args ...string) string {
	t.Helper()
	fullArgs := append([]string{"-C", dir, "-c", "commit.gpgsign=false", "-c", "core.hooksPath=/dev/null"}, args...)
	cmd := exec.Command("git", fullArgs...)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_CONFIG_GLOBAL=/dev/null")
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// CommitFixture writes an empty commit with fixed identities and timestamps.
func CommitFixture(t testing.TB, dir, author, committer string, epoch int64, msg string) {
	t.Helper()
	date := fmt.Sprintf("@%d +0000", epoch)
	env := []string{
		"GIT_AUTHOR_NAME=" + author,
		"GIT_AUTHOR_EMAIL=author@example.com",
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_NAME=" + committer,
		"GIT_COMMITTER_EMAIL=committer@example.com",
		"GIT_COMMITTER_DATE=" + date,
	}
	RunFixtureGit(t, dir, env, "commit", "--allow-empty", "-q", "-m", msg)
}

// InitEmptyFixtureRepo creates a repository without any commits and returns its path.
func InitEmptyFixtureRepo(t testing.TB) string {
	t.Helper()
	SkipIfGitNotAvailable(t)
	dir := t.TempDir()
	RunFixtureGit(t, dir, nil, "init", "-q")
	RunFixtureGit(t, dir, nil, "symbolic-ref", "HEAD", "refs/heads/main")
	return dir
}

// InitFixtureRepo creates a repository with two branches and returns its path.
//
//	main:          root (GitHub / Phodal HUANG) -> tip (Alice)
//	feature/login: root (GitHub / Phodal HUANG) -> tip (Bob)
func InitFixtureRepo(t testing.TB) string {
	t.Helper()
	dir := InitEmptyFixtureRepo(t)
	CommitFixture(t, dir, "GitHub", "Phodal HUANG", FixtureFirstEpoch, "root")
	RunFixtureGit(t, dir, nil, "branch", "feature/login")
	CommitFixture(t, dir, "Alice", "Alice", FixtureMainEpoch, "main tip")
	RunFixtureGit(t, dir, nil, "checkout", "-q", "feature/login")
	CommitFixture(t, dir, "Bob", "Bob", FixtureFeatureEpoch, "feature tip")
	RunFixtureGit(t, dir, nil, "checkout", "-q", "main")
	return dir
}
