// Package platform maps an OS/architecture pair to the mirror's
// platform naming.
//
// The mirror publishes one release tree per architecture directory and
// encodes the OS in the archive file name, so a resolved Platform
// carries both names. Resolution is a pure lookup: no I/O, no network,
// decided before the pipeline touches anything else.
package platform

import (
	"runtime"
	"strings"

	"github.com/ocup/ocup/internal/errs"
)

// Key identifies one supported OS/architecture combination.
type Key string

// Supported platform keys.
const (
	LinuxAMD64  Key = "linux-x86_64"
	LinuxARM64  Key = "linux-arm64"
	DarwinAMD64 Key = "darwin-x86_64"
	DarwinARM64 Key = "darwin-arm64"
)

// Platform carries the mirror-side naming for a resolved key: the
// architecture directory under the mirror base and the infix used in
// archive file names (openshift-client-<infix>-<version>.tar.gz).
// The darwin-arm64 archives are published under the x86_64 tree,
// hence its ArchDir.
type Platform struct {
	Key     Key
	ArchDir string
	Infix   string
}

// Resolve maps OS/architecture identifiers to the mirror's platform
// naming. Empty values default to the running process's. Combinations
// without a mirror equivalent fail with UnsupportedPlatformError.
func Resolve(goos, goarch string) (Platform, error) {
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}

	switch normalizeOS(goos) {
	case "linux":
		switch normalizeArch(goarch) {
		case "amd64":
			return Platform{Key: LinuxAMD64, ArchDir: "x86_64", Infix: "linux"}, nil
		case "arm64":
			return Platform{Key: LinuxARM64, ArchDir: "aarch64", Infix: "linux"}, nil
		}
	case "darwin":
		switch normalizeArch(goarch) {
		case "amd64":
			return Platform{Key: DarwinAMD64, ArchDir: "x86_64", Infix: "mac"}, nil
		case "arm64":
			return Platform{Key: DarwinARM64, ArchDir: "x86_64", Infix: "mac-arm64"}, nil
		}
	}

	return Platform{}, &errs.UnsupportedPlatformError{OS: goos, Arch: goarch}
}

// normalizeOS folds the common alternate spellings of macOS into the
// GOOS name.
func normalizeOS(goos string) string {
	switch strings.ToLower(goos) {
	case "darwin", "macos", "mac", "osx":
		return "darwin"
	default:
		return strings.ToLower(goos)
	}
}

// normalizeArch folds uname-style architecture names into GOARCH
// names.
func normalizeArch(goarch string) string {
	switch strings.ToLower(goarch) {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return strings.ToLower(goarch)
	}
}
