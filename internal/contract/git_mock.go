package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// CloneMirror implements the GitClient interface.
func (m *MockGitClient) CloneMirror(ctx context.Context, url string, dest string) error {
	ret := m.Called(ctx, url, dest)
	return ret.Error(0)
}

// UpdateMirror implements the GitClient interface.
func (m *MockGitClient) UpdateMirror(ctx context.Context, repoPath string) error {
	ret := m.Called(ctx, repoPath)
	return ret.Error(0)
}

// ListBranchRefs implements the GitClient interface.
func (m *MockGitClient) ListBranchRefs(ctx context.Context, repoPath string, includeRemotes bool) ([]byte, error) {
	ret := m.Called(ctx, repoPath, includeRemotes)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetBranchLog implements the GitClient interface.
func (m *MockGitClient) GetBranchLog(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
