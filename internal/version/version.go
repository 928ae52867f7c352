// Package version carries the build identity reported by the ping route
// and the CLI --version flag.
package version

const (
	Server  = "padlink"
	Version = "0.1.0"
)
