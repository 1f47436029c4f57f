// pkg/version/version.go
// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of renderq.
	Version = "dev"
	// Commit holds the current version commit of renderq.
	Commit = "none"
	// BuildDate holds the build date of renderq.
	BuildDate = "unknown"
)

// Struct returns version information in a structured format.
type Struct struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("RenderQ %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// Get returns version information as a Struct.
func Get() Struct {
	return Struct{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// CheckMinimum reports whether the running version satisfies the given
// semver constraint (e.g. ">= 1.2.0"). Dev builds always satisfy it.
func CheckMinimum(constraint string) (bool, error) {
	if Version == "dev" {
		return true, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parse constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", Version, err)
	}

	return c.Check(v), nil
}
