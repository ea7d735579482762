package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildPyblocksBinary builds the CLI into a temporary directory
func buildPyblocksBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pyblocks")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pyblocks")

	// project root is one level up from e2e
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build pyblocks binary: %v\n%s", err, out)
	}
	return binaryPath
}

func createTestPythonFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
	return filePath
}

// createTestConfigFile writes a .pyblocks.toml into testDir
func createTestConfigFile(t *testing.T, testDir, content string) {
	t.Helper()
	configFile := filepath.Join(testDir, ".pyblocks.toml")
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
}

// outputDirConfig directs generated reports to outputDir
func outputDirConfig(outputDir string) string {
	return fmt.Sprintf("[output]\ndirectory = %q\n", outputDir)
}
