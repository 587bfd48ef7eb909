package mirror

import (
	"bufio"
	"bytes"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Release is one catalog entry: a directory name the mirror publishes
// that parses as a version. Name is kept verbatim because the mirror's
// directory and archive file names are built from it.
type Release struct {
	Name    string
	Version *semver.Version
}

// Catalog is the ordered set of releases discovered from one listing
// fetch. It is never persisted across invocations.
type Catalog []Release

// hrefPattern pulls quoted link targets out of an HTML listing.
var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// ParseListing extracts release entries from a raw directory listing.
// It is a pure function, tolerant of both HTML listings (anchor hrefs)
// and plain-text listings (one name per line). Rows that do not parse
// as a strict dotted version triple with optional pre-release suffix
// are dropped; duplicates are dropped after the first occurrence.
func ParseListing(raw []byte) Catalog {
	var names []string
	if bytes.Contains(raw, []byte("href=")) {
		for _, m := range hrefPattern.FindAllSubmatch(raw, -1) {
			names = append(names, string(m[1]))
		}
	} else {
		sc := bufio.NewScanner(bytes.NewReader(raw))
		for sc.Scan() {
			names = append(names, sc.Text())
		}
	}

	seen := make(map[string]bool)
	var entries Catalog
	for _, name := range names {
		name = strings.TrimSuffix(strings.TrimSpace(name), "/")
		if strings.Contains(name, "/") {
			name = path.Base(name)
		}
		if name == "" || seen[name] {
			continue
		}
		v, err := semver.StrictNewVersion(name)
		if err != nil {
			continue
		}
		seen[name] = true
		entries = append(entries, Release{Name: name, Version: v})
	}
	return entries
}
