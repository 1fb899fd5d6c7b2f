package buildconfig

// Set at build time via -ldflags "-X .../buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	return commit
}

// VersionInfo returns the build identity served on /version.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
		"built":   date,
	}
}
