// Package vars holds build-time variables populated via the linker (ldflags).
package vars

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// License of the project
const License = "AGPL-3.0"

var (
	// Name of the project
	Name = "GameWatch"

	// Version of application (git tag) semver/tag, e.g. v1.2.3
	Version = "dev"

	// Commit is the current git commit, full or short git SHA
	Commit = "unknown"

	// Revision build, count of commits
	Revision = 0

	// BuildTime is the time of start build app, RFC3339 UTC
	BuildTime = time.Unix(0, 0)

	// URL to repository (https)
	URL = "https://github.com/woozymasta/gamewatch"

	_revision  string
	_buildTime string
)

// BuildInfo exposes version metadata to the query API.
type BuildInfo struct {
	// betteralign:ignore

	// Project name
	Name string `json:"name"`

	// Version of application (git tag)
	Version string `json:"version"`

	// Current git commit short SHA
	Commit string `json:"commit"`

	// Revision build, count of commits
	Revision int `json:"revision,omitempty"`
}

func init() {
	if n, err := strconv.Atoi(_revision); err == nil {
		Revision = n
	}

	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

// Print writes the build information to the standard output.
func Print() {
	fmt.Printf(`name:     %s
url:      %s
file:     %s
version:  %s
commit:   %s
revision: %d
built:    %s
license:  %s
`, Name, URL, os.Args[0], Version, Commit, Revision, BuildTime, License)
}

// Ver returns the build metadata reported by the status endpoint.
func Ver() BuildInfo {
	return BuildInfo{
		Name:     Name,
		Version:  Version,
		Commit:   CommitShort(),
		Revision: Revision,
	}
}

// UserAgent returns the User-Agent sent with outbound Discord requests.
// Discord requires the "DiscordBot (url, version)" form.
func UserAgent() string {
	return fmt.Sprintf("DiscordBot (%s, %s)", URL, Version)
}

// CommitShort returns the first 7 characters of the git commit hash.
func CommitShort() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}

	return Commit
}
