//go:build e2e

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// MockPlayerBuilder creates fake audio player scripts that record how they
// were invoked, so audio cues can be tested on machines without sound.
type MockPlayerBuilder struct {
	t          *testing.T
	exitCode   int
	stderr     string
	scriptPath string
	callsPath  string
}

// NewMockPlayerBuilder creates a new mock builder
func NewMockPlayerBuilder(t *testing.T) *MockPlayerBuilder {
	t.Helper()

	return &MockPlayerBuilder{t: t}
}

// WithExitCode sets the exit code to return
func (m *MockPlayerBuilder) WithExitCode(code int) *MockPlayerBuilder {
	m.exitCode = code
	return m
}

// WithStderr sets stderr output
func (m *MockPlayerBuilder) WithStderr(stderr string) *MockPlayerBuilder {
	m.stderr = stderr
	return m
}

// Build creates the mock script and returns its path
func (m *MockPlayerBuilder) Build() string {
	m.t.Helper()

	dir := m.t.TempDir()
	m.scriptPath = filepath.Join(dir, "player")
	m.callsPath = m.scriptPath + ".calls"

	if err := os.WriteFile(m.scriptPath, []byte(m.generateScript()), 0755); err != nil {
		m.t.Fatalf("failed to write mock script: %v", err)
	}
	return m.scriptPath
}

// Calls returns one line per invocation holding the space-joined arguments
func (m *MockPlayerBuilder) Calls() []string {
	m.t.Helper()

	if m.callsPath == "" {
		m.t.Fatal("mock script not built yet - call Build() first")
	}

	data, err := os.ReadFile(m.callsPath)
	if os.IsNotExist(err) {
		return []string{}
	}
	if err != nil {
		m.t.Fatalf("failed to read captured calls: %v", err)
	}
	if len(data) == 0 {
		return []string{}
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// WaitForCalls polls until at least n invocations were recorded or timeout passes
func (m *MockPlayerBuilder) WaitForCalls(n int, timeout time.Duration) []string {
	m.t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		calls := m.Calls()
		if len(calls) >= n || time.Now().After(deadline) {
			return calls
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (m *MockPlayerBuilder) generateScript() string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n")
	b.WriteString(fmt.Sprintf("echo \"$*\" >> %s\n", shellQuote(m.callsPath)))
	if m.stderr != "" {
		b.WriteString(fmt.Sprintf("echo %s >&2\n", shellQuote(m.stderr)))
	}
	b.WriteString(fmt.Sprintf("exit %d\n", m.exitCode))
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
