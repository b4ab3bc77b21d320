package version

import (
	"math"

	oerrors "github.com/opmodel/release/internal/errors"
)

// Next computes the version that a release in the given mode produces from
// current. It never modifies current.
//
//   - major: a snapshot whose minor and patch are absent or zero is released
//     as is; otherwise the major component is incremented and minor reset.
//   - patch: a snapshot loses its counter; otherwise patch is incremented.
//   - snapshot: the snapshot counter is incremented, or the patch component
//     is incremented and the counter starts at 1.
//   - custom: the target, which must order strictly after current.
//
// The minor and info modes are unsupported and fail with ErrUnsupported.
func Next(current *Version, mode Mode) (*Version, error) {
	switch mode.Kind() {
	case KindMajor:
		return nextMajor(current)
	case KindPatch:
		return nextPatch(current)
	case KindSnapshot:
		return nextSnapshot(current)
	case KindCustom:
		target, _ := mode.Target()
		if target == nil {
			return nil, oerrors.Wrap(oerrors.ErrArgument, "custom release mode has no target version")
		}
		if target.Compare(current) <= 0 {
			return nil, oerrors.Wrapf(oerrors.ErrArgument,
				"custom version %s does not succeed the current version %s", target, current)
		}
		return target, nil
	case KindMinor:
		return nil, oerrors.Wrap(oerrors.ErrUnsupported, "minor releases are not supported yet")
	default:
		return nil, oerrors.Wrapf(oerrors.ErrUnsupported, "release mode %s does not produce a version", mode)
	}
}

// increment returns n+1, failing when n is the largest component value.
func increment(v *Version, name string, n int) (int, error) {
	if n == math.MaxInt {
		return 0, oerrors.Wrapf(oerrors.ErrArgument, "%s component of %s cannot be incremented", name, v)
	}
	return n + 1, nil
}

func nextMajor(v *Version) (*Version, error) {
	if v.IsSnapshot() && v.almostMajor() {
		return &Version{major: v.major, minor: v.minor, patch: v.patch}, nil
	}
	major, err := increment(v, "major", v.major)
	if err != nil {
		return nil, err
	}
	return &Version{major: major, minor: some(0)}, nil
}

func nextPatch(v *Version) (*Version, error) {
	if v.IsSnapshot() {
		return &Version{major: v.major, minor: v.minor, patch: v.patch}, nil
	}
	patch, err := increment(v, "patch", v.patch.orZero())
	if err != nil {
		return nil, err
	}
	return &Version{major: v.major, minor: some(v.minor.orZero()), patch: some(patch)}, nil
}

func nextSnapshot(v *Version) (*Version, error) {
	if v.IsSnapshot() {
		snapshot, err := increment(v, "snapshot", v.snapshot.value)
		if err != nil {
			return nil, err
		}
		return &Version{major: v.major, minor: v.minor, patch: v.patch, snapshot: some(snapshot)}, nil
	}
	patch, err := increment(v, "patch", v.patch.orZero())
	if err != nil {
		return nil, err
	}
	return &Version{
		major:    v.major,
		minor:    some(v.minor.orZero()),
		patch:    some(patch),
		snapshot: some(1),
	}, nil
}
