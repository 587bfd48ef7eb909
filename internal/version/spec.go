// Package version classifies user-supplied version specs and resolves
// them against a release catalog under the mirror's ordering rules.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind says how a spec selects releases.
type Kind int

const (
	// Latest selects the newest release, preferring stable.
	Latest Kind = iota
	// Exact selects one release by full version, pre-release tag
	// included.
	Exact
	// MajorMinor selects the newest release of one major.minor series.
	MajorMinor
	// Pattern selects by dotted numeric prefix, currently a bare major.
	Pattern
)

func (k Kind) String() string {
	switch k {
	case Latest:
		return "latest"
	case Exact:
		return "exact"
	case MajorMinor:
		return "major.minor"
	case Pattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Spec is a parsed version spec. Built once from CLI text and never
// mutated.
type Spec struct {
	Kind Kind
	Text string

	exact *semver.Version
	comps []uint64
}

// String returns the normalized spec text.
func (s Spec) String() string {
	if s.Kind == Latest {
		return "latest"
	}
	return s.Text
}

// ParseSpec classifies raw user input. A single leading "v" is
// tolerated, "" and "latest" mean the newest release. Anything that is
// neither a full version, a major.minor pair, nor a bare major is
// rejected.
func ParseSpec(raw string) (Spec, error) {
	text := strings.TrimSpace(raw)
	if len(text) > 1 && (text[0] == 'v' || text[0] == 'V') && text[1] >= '0' && text[1] <= '9' {
		text = text[1:]
	}

	if text == "" || strings.EqualFold(text, "latest") {
		return Spec{Kind: Latest, Text: "latest"}, nil
	}

	if v, err := semver.StrictNewVersion(text); err == nil {
		return Spec{Kind: Exact, Text: text, exact: v}, nil
	}

	parts := strings.Split(text, ".")
	if len(parts) <= 2 {
		comps := make([]uint64, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return Spec{}, fmt.Errorf("invalid version spec %q", raw)
			}
			comps = append(comps, n)
		}
		kind := Pattern
		if len(comps) == 2 {
			kind = MajorMinor
		}
		return Spec{Kind: kind, Text: text, comps: comps}, nil
	}

	return Spec{}, fmt.Errorf("invalid version spec %q", raw)
}
