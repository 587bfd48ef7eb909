package version

import (
	"slices"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/mirror"
)

// matches reports whether release e satisfies the spec.
func (s Spec) matches(e mirror.Release) bool {
	switch s.Kind {
	case Latest:
		return true
	case Exact:
		return e.Version.Equal(s.exact)
	default:
		if e.Version.Major() != s.comps[0] {
			return false
		}
		if len(s.comps) > 1 && e.Version.Minor() != s.comps[1] {
			return false
		}
		return true
	}
}

func filter(catalog mirror.Catalog, spec Spec) []mirror.Release {
	var out []mirror.Release
	for _, e := range catalog {
		if spec.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Resolve picks the single release the spec asks for. Filtering specs
// prefer the highest stable match and fall back to the highest
// pre-release when the series has no stable release yet. No match is a
// NotFoundError, an empty catalog included.
func Resolve(catalog mirror.Catalog, spec Spec) (mirror.Release, error) {
	matches := filter(catalog, spec)
	if len(matches) == 0 {
		return mirror.Release{}, &errs.NotFoundError{Spec: spec.String()}
	}

	var best, bestStable *mirror.Release
	for i := range matches {
		e := &matches[i]
		if best == nil || Compare(e.Version, best.Version) > 0 {
			best = e
		}
		if IsStable(e.Version) && (bestStable == nil || Compare(e.Version, bestStable.Version) > 0) {
			bestStable = e
		}
	}
	if bestStable != nil {
		return *bestStable, nil
	}
	return *best, nil
}

// List returns every release the spec matches, sorted descending, the
// newest first. No match is a NotFoundError.
func List(catalog mirror.Catalog, spec Spec) ([]mirror.Release, error) {
	matches := filter(catalog, spec)
	if len(matches) == 0 {
		return nil, &errs.NotFoundError{Spec: spec.String()}
	}

	slices.SortFunc(matches, func(a, b mirror.Release) int {
		return Compare(b.Version, a.Version)
	})
	return matches, nil
}
