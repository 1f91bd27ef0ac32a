// Package version holds build-time version information.
//
// Values are set via ldflags:
//
//	-X github.com/tacogips/regen/internal/version.Version=x.y.z
//	-X github.com/tacogips/regen/internal/version.GitCommit=abc1234
//	-X github.com/tacogips/regen/internal/version.BuildDate=2006-01-02
package version

import "runtime/debug"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
