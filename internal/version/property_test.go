package version

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genVersion generates well-formed versions. A negative draw leaves the
// component absent; patch is only drawn when minor is present.
func genVersion() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 30),
		gen.IntRange(-1, 30),
		gen.IntRange(-1, 30),
		gen.IntRange(-1, 30),
	).Map(func(values []interface{}) *Version {
		v := &Version{major: values[0].(int)}
		if minor := values[1].(int); minor >= 0 {
			v.minor = some(minor)
			if patch := values[2].(int); patch >= 0 {
				v.patch = some(patch)
			}
		}
		if snapshot := values[3].(int); snapshot >= 0 {
			v.snapshot = some(snapshot)
		}
		return v
	})
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestVersionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("literal round-trips through Parse", prop.ForAll(
		func(v *Version) bool {
			parsed, err := Parse(v.String())
			return err == nil && parsed.String() == v.String() && parsed.Equal(v)
		},
		genVersion(),
	))

	properties.Property("compare is antisymmetric", prop.ForAll(
		func(a, b *Version) bool {
			return sign(a.Compare(b)) == -sign(b.Compare(a))
		},
		genVersion(), genVersion(),
	))

	properties.Property("compare is transitive", prop.ForAll(
		func(a, b, c *Version) bool {
			if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
				return a.Compare(c) <= 0
			}
			return true
		},
		genVersion(), genVersion(), genVersion(),
	))

	properties.Property("equal iff compare is zero", prop.ForAll(
		func(a, b *Version) bool {
			return a.Equal(b) == (a.Compare(b) == 0)
		},
		genVersion(), genVersion(),
	))

	properties.Property("snapshot successor is a greater snapshot", prop.ForAll(
		func(v *Version) bool {
			next, err := Next(v, Snapshot)
			return err == nil && next.IsSnapshot() && next.Compare(v) > 0
		},
		genVersion(),
	))

	properties.Property("patch successor of a snapshot drops the counter", prop.ForAll(
		func(v *Version) bool {
			if !v.IsSnapshot() {
				return true
			}
			next, err := Next(v, Patch)
			if err != nil || next.IsSnapshot() {
				return false
			}
			minor, _ := v.Minor()
			patch, _ := v.Patch()
			nextMinor, _ := next.Minor()
			nextPatch, _ := next.Patch()
			return next.Major() == v.Major() && nextMinor == minor && nextPatch == patch
		},
		genVersion(),
	))

	properties.Property("patch successor of a dot version is greater", prop.ForAll(
		func(v *Version) bool {
			if v.IsSnapshot() {
				return true
			}
			next, err := Next(v, Patch)
			return err == nil && next.IsDot() && next.Compare(v) > 0
		},
		genVersion(),
	))

	properties.Property("major successor is a dot version", prop.ForAll(
		func(v *Version) bool {
			next, err := Next(v, Major)
			return err == nil && next.IsDot() && next.IsMajor()
		},
		genVersion(),
	))

	properties.Property("custom target not after current is rejected", prop.ForAll(
		func(current, target *Version) bool {
			_, err := Next(current, Custom(target))
			return (err == nil) == (target.Compare(current) > 0)
		},
		genVersion(), genVersion(),
	))

	properties.TestingRun(t)
}
