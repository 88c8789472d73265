// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/darakelian/osrsprice/pkg/version.version=1.2.0 \
//	                   -X github.com/darakelian/osrsprice/pkg/version.commit=$(git rev-parse --short HEAD)"
package version

import (
	"github.com/Masterminds/semver/v3"
)

// AppName is the application name reported in the user agent.
const AppName = "osrsprice"

// fallbackVersion is reported when the build-time version is not valid semver.
const fallbackVersion = "0.0.0-dev"

//nolint:gochecknoglobals // Set via ldflags at build time.
var (
	version = "0.1.0"
	commit  = "unknown"
)

// GetVersion returns the normalized semantic version of this build, without a leading "v".
// Builds stamped with something that is not semver report 0.0.0-dev.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fallbackVersion
	}
	return v.String()
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// UserAgent returns the name/version identifier sent to the prices API.
func UserAgent() string {
	return AppName + "/" + GetVersion()
}
