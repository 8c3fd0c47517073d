// Package version exposes the build version of the scribe binary.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/skillsenselab/scribe/version.Version=1.0.0"
//
// Fields left unset fall back to the module build info the Go toolchain
// embeds.
package version
