// Package version holds the build version of the fluxpress binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/fluxpress/theme-classic/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	if Version != "unknown" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// String renders the version line printed by `fluxpress --version`.
func String() string {
	return fmt.Sprintf("fluxpress %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
