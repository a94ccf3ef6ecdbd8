// Package version exposes build metadata for startup logging.
package version

import "runtime/debug"

// Set via ldflags, e.g.
//
//	go build -ldflags "-X github.com/talankisai/financehub-fullstack/internal/version.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String renders the version with the commit when one is known. When the
// binary was built without ldflags, the commit falls back to the VCS revision
// embedded by the Go toolchain.
func String() string {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return Version + "+" + commit
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
