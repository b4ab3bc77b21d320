package version

import (
	"fmt"
	"strings"
)

// Kind enumerates the release transitions.
type Kind int

const (
	// KindInfo reports project information without releasing.
	KindInfo Kind = iota
	// KindSnapshot releases the next snapshot.
	KindSnapshot
	// KindMinor releases the next minor version.
	KindMinor
	// KindMajor releases the next major version.
	KindMajor
	// KindPatch releases the next patch version.
	KindPatch
	// KindCustom releases an explicitly given version.
	KindCustom
)

var kindNames = map[Kind]string{
	KindInfo:     "info",
	KindSnapshot: "snapshot",
	KindMinor:    "minor",
	KindMajor:    "major",
	KindPatch:    "patch",
	KindCustom:   "custom",
}

// String returns the mode token.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mode is a release mode. Only custom modes carry a target version; build
// them with Custom. The zero value is the info mode.
type Mode struct {
	kind   Kind
	target *Version
}

// The non-custom release modes.
var (
	Info     = Mode{kind: KindInfo}
	Snapshot = Mode{kind: KindSnapshot}
	Minor    = Mode{kind: KindMinor}
	Major    = Mode{kind: KindMajor}
	Patch    = Mode{kind: KindPatch}
)

// Custom returns a custom release mode targeting v.
func Custom(v *Version) Mode {
	return Mode{kind: KindCustom, target: v}
}

// ParseMode parses a release mode token (info, snapshot, minor, major, patch,
// case-insensitive). Any other token is parsed as a version literal and
// yields a custom mode; a token that is neither fails with ErrFormat.
func ParseMode(token string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "info":
		return Info, nil
	case "snapshot":
		return Snapshot, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	case "patch":
		return Patch, nil
	}

	v, err := Parse(token)
	if err != nil {
		return Mode{}, fmt.Errorf("release mode must be one of info, snapshot, minor, major, patch or a version: %w", err)
	}
	return Custom(v), nil
}

// Kind returns the variant.
func (m Mode) Kind() Kind { return m.kind }

// Target returns the custom target version. The boolean is false for every
// non-custom mode.
func (m Mode) Target() (*Version, bool) {
	return m.target, m.kind == KindCustom
}

// IsIncrement reports whether the mode computes the next version by
// incrementing the current one.
func (m Mode) IsIncrement() bool {
	switch m.kind {
	case KindMajor, KindMinor, KindPatch, KindSnapshot:
		return true
	default:
		return false
	}
}

// IsDot reports whether the mode produces a released (non-snapshot) version.
func (m Mode) IsDot() bool {
	switch m.kind {
	case KindMajor, KindMinor, KindPatch:
		return true
	case KindCustom:
		return m.target != nil && m.target.IsDot()
	default:
		return false
	}
}

// IsSnapshot reports whether the mode produces a snapshot version.
func (m Mode) IsSnapshot() bool {
	switch m.kind {
	case KindSnapshot:
		return true
	case KindCustom:
		return m.target != nil && m.target.IsSnapshot()
	default:
		return false
	}
}

// String returns the mode token, or the target literal for custom modes.
func (m Mode) String() string {
	if m.kind == KindCustom && m.target != nil {
		return m.target.String()
	}
	return m.kind.String()
}
