// Package version carries build identity, injected at link time.
package version

//nolint:gochecknoglobals // set via -ldflags at build time
var (
	name    = "scrutinium"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the VCS revision the binary was built from.
func Commit() string {
	return commit
}
