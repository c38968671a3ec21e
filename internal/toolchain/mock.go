package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Call is one command the MockRunner received
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String returns the command line of the call
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type mockResponse struct {
	output string
	err    error
}

// MockRunner implements Runner for testing. Commands without a registered
// response fail with ErrNotFound.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     []Call
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string]mockResponse),
	}
}

// SetOutput registers the output of a command line such as "node --version"
func (m *MockRunner) SetOutput(commandLine, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[commandLine] = mockResponse{output: output}
}

// SetError registers a failing command line
func (m *MockRunner) SetError(commandLine string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[commandLine] = mockResponse{err: err}
}

// Calls returns the commands run so far
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	return m.run(dir, name, args)
}

func (m *MockRunner) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	output, err := m.run(dir, name, args)
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(stdout, output)
	}
	return nil
}

func (m *MockRunner) run(dir, name string, args []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := Call{Dir: dir, Name: name, Args: args}
	m.calls = append(m.calls, call)

	resp, ok := m.responses[call.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return resp.output, resp.err
}
