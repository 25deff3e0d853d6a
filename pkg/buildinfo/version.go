// Package buildinfo carries the version of the cmsstyle binary.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/cms-cat/cmsstyle-go/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/cms-cat/cmsstyle-go/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/cms-cat/cmsstyle-go/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v0.3.0").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Server returns the value used for the Server header of the preview server.
func Server() string {
	return "cmsstyle/" + Version
}
