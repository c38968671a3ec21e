package git

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// MockGitClient implements GitClient for testing. Repositories are tracked
// by directory.
type MockGitClient struct {
	mu      sync.RWMutex
	repos   map[string]bool
	version string
	ctx     context.Context

	// Hooks for testing error scenarios
	InitError    error
	VersionError error

	// InitCalls records every directory Init was called with
	InitCalls []string
}

// NewMockGitClient creates a new MockGitClient
func NewMockGitClient() *MockGitClient {
	return &MockGitClient{
		repos:   make(map[string]bool),
		version: "git version 2.45.0",
		ctx:     context.Background(),
	}
}

func (m *MockGitClient) WithContext(ctx context.Context) GitClient {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctx = ctx
	return m
}

func (m *MockGitClient) Init(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitCalls = append(m.InitCalls, dir)
	if m.InitError != nil {
		return m.InitError
	}

	m.repos[filepath.Clean(dir)] = true
	return nil
}

func (m *MockGitClient) IsGitRepo(dir string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir = filepath.Clean(dir)
	for repo := range m.repos {
		if dir == repo || strings.HasPrefix(dir, repo+string(filepath.Separator)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockGitClient) Version() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.VersionError != nil {
		return "", m.VersionError
	}
	return m.version, nil
}

// SetVersion sets the string Version returns
func (m *MockGitClient) SetVersion(version string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version = version
}
