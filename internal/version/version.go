// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("presupuestator %s (commit=%s, date=%s, go=%s)", Version, Commit, Date, runtime.Version())
}
