package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const branchySource = `
def classify(x):
    if x > 10:
        label = "big"
    elif x > 0:
        label = "small"
    else:
        label = "none"
    for i in range(x):
        print(i)
    return label
`

type blocksReport struct {
	Files []struct {
		FilePath     string `json:"file_path"`
		TotalBlocks  int    `json:"total_blocks"`
		TotalClasses int    `json:"total_classes"`
	} `json:"files"`
	Summary struct {
		FilesAnalyzed  int `json:"files_analyzed"`
		FilesFromCache int `json:"files_from_cache"`
		TotalBlocks    int `json:"total_blocks"`
	} `json:"summary"`
	Errors []string `json:"errors"`
}

func runPyblocks(t *testing.T, binary, dir string, args ...string) (string, string) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("pyblocks %v failed: %v\nStderr: %s", args, err, stderr.String())
	}
	return stdout.String(), stderr.String()
}

func decodeReport(t *testing.T, data []byte) blocksReport {
	t.Helper()
	var report blocksReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, data)
	}
	return report
}

// TestBlocksE2EText tests the default text report
func TestBlocksE2EText(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)

	output, _ := runPyblocks(t, binaryPath, testDir, "blocks", "--no-cache", testDir)

	for _, want := range []string{"Basic Block Analysis", "classify.py", "SUMMARY", "calls: print"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q\n%s", want, output)
		}
	}
}

// TestBlocksE2EJSON tests JSON written to stdout
func TestBlocksE2EJSON(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)
	createTestPythonFile(t, testDir, "pkg/empty.py", "")

	output, _ := runPyblocks(t, binaryPath, testDir, "blocks", "--json", "--no-cache", testDir)
	report := decodeReport(t, []byte(output))

	if report.Summary.FilesAnalyzed != 2 {
		t.Errorf("Expected 2 analyzed files, got %d", report.Summary.FilesAnalyzed)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", report.Errors)
	}
	for _, f := range report.Files {
		if strings.HasSuffix(f.FilePath, "classify.py") && f.TotalBlocks < 4 {
			t.Errorf("Expected classify.py to have several blocks, got %d", f.TotalBlocks)
		}
	}
}

// TestBlocksE2EOutputDirectory tests that non-text reports go to the
// configured output directory
func TestBlocksE2EOutputDirectory(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	outputDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)
	createTestConfigFile(t, testDir, outputDirConfig(outputDir))

	stdout, stderr := runPyblocks(t, binaryPath, testDir, "blocks", "--dot", "--no-cache", testDir)
	if stdout != "" {
		t.Errorf("Expected empty stdout when writing a report file, got %q", stdout)
	}
	if !strings.Contains(stderr, "DOT report generated") {
		t.Errorf("Expected report message on stderr, got %q", stderr)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "pyblocks_report.dot"))
	if err != nil {
		t.Fatalf("Report file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph pyblocks {") {
		t.Errorf("Unexpected DOT content:\n%s", data)
	}
}

// TestBlocksE2ECache tests that a second run is served from the result cache
func TestBlocksE2ECache(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)

	first, _ := runPyblocks(t, binaryPath, testDir, "blocks", "--json", "classify.py")
	if report := decodeReport(t, []byte(first)); report.Summary.FilesFromCache != 0 {
		t.Errorf("First run should not hit the cache, got %d", report.Summary.FilesFromCache)
	}
	if _, err := os.Stat(filepath.Join(testDir, ".pyblocks_cache")); err != nil {
		t.Fatalf("Cache file not written: %v", err)
	}

	second, _ := runPyblocks(t, binaryPath, testDir, "blocks", "--json", "classify.py")
	firstReport := decodeReport(t, []byte(first))
	secondReport := decodeReport(t, []byte(second))
	if secondReport.Summary.FilesFromCache != 1 {
		t.Errorf("Second run should be served from cache, got %d", secondReport.Summary.FilesFromCache)
	}
	if secondReport.Summary.TotalBlocks != firstReport.Summary.TotalBlocks {
		t.Errorf("Cached result differs: %d vs %d blocks", secondReport.Summary.TotalBlocks, firstReport.Summary.TotalBlocks)
	}
}

// TestBlocksE2EInvalidFlags tests flag validation
func TestBlocksE2EInvalidFlags(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)

	tests := []struct {
		name string
		args []string
	}{
		{"two formats", []string{"blocks", "--json", "--csv", testDir}},
		{"no paths", []string{"blocks"}},
		{"bad boundary", []string{"blocks", "--no-cache", "--boundary", "Nope", testDir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Dir = testDir
			var stderr bytes.Buffer
			cmd.Stderr = &stderr
			if err := cmd.Run(); err == nil {
				t.Errorf("Expected failure for %v", tt.args)
			}
		})
	}
}

// TestInitE2E tests that init writes a config the blocks command accepts
func TestInitE2E(t *testing.T) {
	binaryPath := buildPyblocksBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "classify.py", branchySource)

	runPyblocks(t, binaryPath, testDir, "init")
	if _, err := os.Stat(filepath.Join(testDir, ".pyblocks.toml")); err != nil {
		t.Fatalf("init did not create .pyblocks.toml: %v", err)
	}

	output, _ := runPyblocks(t, binaryPath, testDir, "blocks", "--json", "--no-cache", ".")
	if report := decodeReport(t, []byte(output)); report.Summary.FilesAnalyzed != 1 {
		t.Errorf("Expected 1 analyzed file, got %d", report.Summary.FilesAnalyzed)
	}
}
