// Package version provides build-time version information for fwblob.
//
// Set via ldflags, for example:
//
//	go build -ldflags "-X github.com/open-cli-collective/fwblob/internal/version.Version=1.0.0 \
//	    -X github.com/open-cli-collective/fwblob/internal/version.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/open-cli-collective/fwblob/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	// Version is the semantic version (from git tag or "dev")
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// Info returns the version string
func Info() string {
	return Version
}

// Full returns the version with commit and build date
func Full() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
