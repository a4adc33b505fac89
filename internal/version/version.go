// Package version provides build-time version information for the application.
package version

var (
	// Version is the application version (e.g., git tag or "dev")
	Version = "dev"
	// Commit is the git commit hash
	Commit = "dev"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Info returns the build information reported by /v1/version and `adm version`
func Info(service string) map[string]string {
	return map[string]string{
		"service":   service,
		"version":   Version,
		"commit":    Commit,
		"buildTime": BuildTime,
	}
}
