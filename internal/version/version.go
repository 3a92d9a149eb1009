// Package version holds the favorites build information. The variables are
// set at link time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/favorites/internal/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is a snapshot of the build variables plus the runtime they run on.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form logged when the server starts.
func (i Info) String() string {
	return fmt.Sprintf("favorites %s (commit=%s, built=%s, go=%s, %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
