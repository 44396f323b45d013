package config

import "fmt"

// Build metadata, stamped by the release script via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the semantic version string.
func GetVersion() string {
	return Version
}

// GetBuildTime returns the timestamp the binary was built at.
func GetBuildTime() string {
	return BuildTime
}

// GetGitCommit returns the git commit hash of the build.
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns the version with build metadata attached.
func GetFullVersion() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}
