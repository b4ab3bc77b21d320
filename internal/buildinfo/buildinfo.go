// Package buildinfo provides version information for the release CLI.
package buildinfo

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/opmodel/release/internal/errors"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("release CLI:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// CheckRequirement verifies that the CLI version satisfies a semver
// constraint such as ">= 0.4, < 1.0" taken from the `requires` config key.
// An empty constraint always passes. Development builds (pre-release
// versions) are compared without their pre-release suffix so that local
// builds are not rejected by lower bounds.
func (i Info) CheckRequirement(constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return oerrors.Wrapf(oerrors.ErrValidation, "invalid requires constraint %q", constraint)
	}

	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return oerrors.Wrapf(oerrors.ErrValidation, "CLI version %q is not a semantic version", i.Version)
	}
	if v.Prerelease() != "" {
		stripped, _ := v.SetPrerelease("")
		v = &stripped
	}

	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msgs = append(msgs, r.Error())
		}
		return oerrors.Wrapf(oerrors.ErrUser, "release CLI %s does not satisfy %q (%s)",
			i.Version, constraint, strings.Join(msgs, "; "))
	}
	return nil
}
