//go:build e2e

package helpers

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// BuildCLI compiles the chess-clock command into a temp directory and returns its path
func BuildCLI(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to locate the module root")
	}
	root := filepath.Join(filepath.Dir(file), "..", "..", "..")
	binary := filepath.Join(t.TempDir(), "chess-clock")

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/chess-clock")
	cmd.Dir = root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build chess-clock: %v\n%s", err, output)
	}
	return binary
}

// RunCLI runs the built binary with stdin and returns its combined output
func RunCLI(t *testing.T, binary, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = []string{"HOME=" + t.TempDir()}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}
