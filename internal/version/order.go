package version

import (
	"cmp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare orders two versions: by numeric triple ascending, then any
// pre-release below the bare triple, then pre-release tags compared
// lexicographically by their full text. The mirror publishes tags like
// ec.N, fc.N, and rc.N whose relative precedence is not documented, so
// the tag text itself is the tiebreak rather than dotted-identifier
// precedence.
func Compare(a, b *semver.Version) int {
	if c := cmp.Compare(a.Major(), b.Major()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor(), b.Minor()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Patch(), b.Patch()); c != 0 {
		return c
	}
	return comparePrerelease(a.Prerelease(), b.Prerelease())
}

func comparePrerelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(a, b)
}

// IsStable reports whether v carries no pre-release tag.
func IsStable(v *semver.Version) bool {
	return v.Prerelease() == ""
}
