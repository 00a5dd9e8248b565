// Package version holds build-time version info, set via -ldflags.
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
)
