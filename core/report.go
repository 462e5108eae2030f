package core

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/huangsam/branchreport/core/enum"
	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/gitrepo"
	"github.com/huangsam/branchreport/schema"
)

// RepoHandle is an opened repository.
type RepoHandle interface {
	Path() string
	Source() string
	Close() error
}

// RepositoryAccess opens a repository source.
type RepositoryAccess interface {
	Open(ctx context.Context, source string) (RepoHandle, error)
}

// BranchEnumerator lists the branches of an opened repository in a stable order.
type BranchEnumerator interface {
	List(ctx context.Context, handle RepoHandle) ([]schema.BranchActivity, error)
}

// BuildReport opens source, lists its branches and renders them as a JSON array.
// Nothing is rendered unless every stage succeeds.
func BuildReport(ctx context.Context, source string, access RepositoryAccess, enumerator BranchEnumerator) (string, error) {
	reports, err := CollectReports(ctx, source, access, enumerator)
	if err != nil {
		return "", err
	}
	return MarshalReport(reports)
}

// CollectReports runs the pipeline up to, but not including, serialization.
func CollectReports(ctx context.Context, source string, access RepositoryAccess, enumerator BranchEnumerator) ([]schema.BranchReport, error) {
	reports, _, err := assemble(ctx, source, access, enumerator)
	return reports, err
}

// MarshalReport renders reports as an indented JSON array. An empty input renders [].
func MarshalReport(reports []schema.BranchReport) (string, error) {
	var buf bytes.Buffer
	if err := schema.EncodeBranchReports(&buf, reports); err != nil {
		return "", &SerializationError{Err: err}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// assemble returns the reports in enumeration order along with the resolved repo path.
func assemble(ctx context.Context, source string, access RepositoryAccess, enumerator BranchEnumerator) ([]schema.BranchReport, string, error) {
	handle, err := access.Open(ctx, source)
	if err != nil {
		var srcErr *SourceError
		if errors.As(err, &srcErr) {
			return nil, "", err
		}
		return nil, "", &SourceError{Source: source, Err: err}
	}
	defer func() {
		if err := handle.Close(); err != nil {
			contract.LogWarn("Failed to release repository", err)
		}
	}()

	activities, err := enumerator.List(ctx, handle)
	if err != nil {
		var enumErr *EnumerationError
		if errors.As(err, &enumErr) {
			return nil, "", err
		}
		return nil, "", &EnumerationError{Source: source, Err: err}
	}
	return schema.NewBranchReports(activities), handle.Path(), nil
}

// gitAccess opens sources with the git binary.
type gitAccess struct {
	client contract.GitClient
	opts   gitrepo.Options
}

// newGitAccess builds a RepositoryAccess from the clone settings in cfg.
func newGitAccess(client contract.GitClient, cfg *contract.Config) RepositoryAccess {
	return &gitAccess{
		client: client,
		opts: gitrepo.Options{
			IsLocal:      cfg.IsLocal,
			CloneDir:     cfg.CloneDir,
			CloneTimeout: cfg.CloneTimeout,
		},
	}
}

func (a *gitAccess) Open(ctx context.Context, source string) (RepoHandle, error) {
	h, err := gitrepo.Open(ctx, a.client, source, a.opts)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// gitEnumerator lists branches with the git binary, consulting the branch cache.
type gitEnumerator struct {
	client contract.GitClient
	opts   enum.Options
	mgr    contract.CacheManager
}

// newGitEnumerator builds a BranchEnumerator from the enumeration settings in cfg.
func newGitEnumerator(client contract.GitClient, cfg *contract.Config, mgr contract.CacheManager) BranchEnumerator {
	return &gitEnumerator{
		client: client,
		opts: enum.Options{
			IncludeRemotes: cfg.IncludeRemotes,
			Workers:        cfg.Workers,
		},
		mgr: mgr,
	}
}

func (e *gitEnumerator) List(ctx context.Context, handle RepoHandle) ([]schema.BranchActivity, error) {
	opts := e.opts
	opts.Source = handle.Source()
	return enum.CachedListBranches(ctx, e.client, handle.Path(), opts, e.mgr)
}
