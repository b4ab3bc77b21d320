// Package version implements the project version model: parsing and
// serializing version literals, ordering, and computing the successor version
// for a release mode.
//
// The literal grammar is
//
//	major[.minor[.patch]][-SNAPSHOT-snapshot]
//
// where every component is a non-negative decimal number. Components that are
// absent are distinct from zero when serialized but compare as zero.
package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/opmodel/release/internal/errors"
)

// component is an optional non-negative version component.
type component struct {
	value int
	set   bool
}

func some(n int) component { return component{value: n, set: true} }

// orZero returns the component value, treating absence as zero.
func (c component) orZero() int {
	if !c.set {
		return 0
	}
	return c.value
}

// Version is an immutable project version. Use Parse or New to construct one.
type Version struct {
	major    int
	minor    component
	patch    component
	snapshot component

	// literal memoizes String.
	literal string
}

// Option sets an optional component on a Version built with New.
type Option func(*Version)

// WithMinor sets the minor component.
func WithMinor(n int) Option {
	return func(v *Version) { v.minor = some(n) }
}

// WithPatch sets the patch component. A patch requires a minor component.
func WithPatch(n int) Option {
	return func(v *Version) { v.patch = some(n) }
}

// WithSnapshot sets the snapshot counter.
func WithSnapshot(n int) Option {
	return func(v *Version) { v.snapshot = some(n) }
}

// New builds a version from components. It fails with ErrArgument when any
// component is negative or when a patch is given without a minor component.
func New(major int, opts ...Option) (*Version, error) {
	v := &Version{major: major}
	for _, opt := range opts {
		opt(v)
	}

	for _, c := range []struct {
		name  string
		value int
	}{
		{"major", v.major},
		{"minor", v.minor.value},
		{"patch", v.patch.value},
		{"snapshot", v.snapshot.value},
	} {
		if c.value < 0 {
			return nil, oerrors.Wrapf(oerrors.ErrArgument, "%s component must not be negative, got %d", c.name, c.value)
		}
	}
	if v.patch.set && !v.minor.set {
		return nil, oerrors.Wrapf(oerrors.ErrArgument, "patch component %d given without a minor component", v.patch.value)
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(literal string) *Version {
	v, err := Parse(literal)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component.
func (v *Version) Major() int { return v.major }

// Minor returns the minor component and whether it is present.
func (v *Version) Minor() (int, bool) { return v.minor.value, v.minor.set }

// Patch returns the patch component and whether it is present.
func (v *Version) Patch() (int, bool) { return v.patch.value, v.patch.set }

// Snapshot returns the snapshot counter and whether it is present.
func (v *Version) Snapshot() (int, bool) { return v.snapshot.value, v.snapshot.set }

// IsSnapshot reports whether the version carries a snapshot counter.
func (v *Version) IsSnapshot() bool { return v.snapshot.set }

// IsDot reports whether the version is a released (non-snapshot) version.
func (v *Version) IsDot() bool { return !v.snapshot.set }

// IsMajor reports whether minor and patch are absent or zero and the version
// is not a snapshot.
func (v *Version) IsMajor() bool {
	return v.IsDot() && v.almostMajor()
}

// almostMajor ignores the snapshot counter.
func (v *Version) almostMajor() bool {
	return v.minor.orZero() == 0 && v.patch.orZero() == 0
}

// String returns the canonical literal. Only present components are written.
func (v *Version) String() string {
	if v.literal == "" {
		v.literal = v.format()
	}
	return v.literal
}

func (v *Version) format() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.major))
	if v.minor.set {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(v.minor.value))
	}
	if v.patch.set {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(v.patch.value))
	}
	if v.snapshot.set {
		b.WriteString(snapshotSeparator)
		b.WriteString(strconv.Itoa(v.snapshot.value))
	}
	return b.String()
}

// Compare orders versions by (major, minor, patch, snapshot) with absent
// components treated as zero. It returns -1, 0 or +1.
func (v *Version) Compare(other *Version) int {
	if c := cmp.Compare(v.major, other.major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.minor.orZero(), other.minor.orZero()); c != 0 {
		return c
	}
	if c := cmp.Compare(v.patch.orZero(), other.patch.orZero()); c != 0 {
		return c
	}
	return cmp.Compare(v.snapshot.orZero(), other.snapshot.orZero())
}

// Equal reports whether both versions compare equal, so "1", "1.0" and
// "1.0.0" are all equal.
func (v *Version) Equal(other *Version) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Compare(other) == 0
}

// Less reports whether v orders before other.
func (v *Version) Less(other *Version) bool {
	return v.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (v *Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// Semver converts the version to a semantic version. A snapshot counter
// becomes the pre-release "SNAPSHOT.<n>".
func (v *Version) Semver() *semver.Version {
	pre := ""
	if v.snapshot.set {
		pre = fmt.Sprintf("SNAPSHOT.%d", v.snapshot.value)
	}
	return semver.New(uint64(v.major), uint64(v.minor.orZero()), uint64(v.patch.orZero()), pre, "")
}

// Satisfies checks the version against a semver constraint such as "< 2.0".
// The snapshot counter is ignored so that snapshots of an allowed version are
// allowed too.
func (v *Version) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, oerrors.Wrapf(oerrors.ErrFormat, "invalid version constraint %q", constraint)
	}
	release := semver.New(uint64(v.major), uint64(v.minor.orZero()), uint64(v.patch.orZero()), "", "")
	return c.Check(release), nil
}
