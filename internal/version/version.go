package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Populated via -ldflags "-X github.com/ludo-technologies/pyblocks/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// BuildInfo is the structured form of the build metadata
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build metadata. A binary installed with `go install` carries
// no ldflags, so the module version recorded by the toolchain is used instead.
func Get() BuildInfo {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return BuildInfo{
		Version:   v,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns version information as a formatted string
func Info() string {
	bi := Get()
	return fmt.Sprintf(
		"pyblocks %s\nCommit: %s\nBuilt: %s by %s\nGo: %s\nOS/Arch: %s",
		bi.Version, bi.Commit, bi.Date, bi.BuiltBy, bi.GoVersion, bi.Platform,
	)
}

// Short returns just the version string
func Short() string {
	return Get().Version
}
