package utils

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Build information, injected via -ldflags.
var (
	Version = "unknown"
	GitHash = "unknown"
	BuildTS = "unknown"
)

// VersionString renders the build information on a single line, e.g.
// "mysqlsizes 1.2.0 (commit 3f9c1ab, built 2019-06-01T12:00:00Z)".
func VersionString(app string) string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", app, Version, GitHash, BuildTS)
}

// PrintVersion writes the build information to stdout, for the -V flag.
func PrintVersion(app string) {
	fmt.Println(VersionString(app))
}

// LogVersion records the build information in the log on startup.
func LogVersion(app string) {
	log.Infof("starting %s", VersionString(app))
}
