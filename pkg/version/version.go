// Package version reports build information.
package version

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = getRevision()
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Full returns the version followed by revision and toolchain details.
func Full() string {
	s := fmt.Sprintf("%s (revision %s, %s, %s", GetVersion(), Revision, GoVersion, Platform)
	if BuildDate != "" {
		s += ", built " + BuildDate
	}

	return s + ")"
}

// LogAttr returns the build information as a log attribute group.
func LogAttr() slog.Attr {
	return slog.Group("build",
		slog.String("version", GetVersion()),
		slog.String("revision", Revision),
		slog.String("go", GoVersion),
	)
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
