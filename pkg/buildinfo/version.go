// Package buildinfo reports the polybuild version and the minifier it was
// linked against.
//
// Release builds stamp the variables below with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/polybuild/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/polybuild/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/polybuild/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/polybuild
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const esbuildModule = "github.com/evanw/esbuild"

// Minifier returns the esbuild module version compiled into the binary,
// or "unknown" when build info is unavailable (e.g. under go test).
func Minifier() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == esbuildModule {
			if dep.Replace != nil && dep.Replace.Version != "" {
				return dep.Replace.Version
			}
			if dep.Version == "" {
				return "unknown"
			}
			return dep.Version
		}
	}
	return "unknown"
}

// String returns the multi-line build summary.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nesbuild: %s", Version, Commit, Date, Minifier())
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\nesbuild: %s\n", Version, Commit, Date, Minifier())
}
