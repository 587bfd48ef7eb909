// Package errs defines the error taxonomy shared by the install pipeline.
//
// Every component returns one of these types, usually wrapped with
// fmt.Errorf context, so callers can select behavior with errors.As:
// the retry policy re-attempts transient network errors only, and the
// CLI maps each class to an exit code.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError reports a failed mirror request. Status is zero when the
// failure happened below HTTP (dial, TLS handshake, timeout).
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Transient reports whether retrying the same request can plausibly
// succeed: transport-level failures, HTTP 5xx and 429. Other statuses
// (notably 4xx) are deterministic and never retried.
func (e *NetworkError) Transient() bool {
	if e.Status == 0 {
		return true
	}
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// ParseError reports a listing response that produced zero release
// entries despite being non-empty. An empty response is an empty
// catalog, not a ParseError.
type ParseError struct {
	URL  string
	Size int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse listing %s: no release entries in %d-byte response", e.URL, e.Size)
}

// NotFoundError reports that no catalog entry satisfies the version
// spec. User-correctable: a different spec may match.
type NotFoundError struct {
	Spec string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no release matches %q", e.Spec)
}

// UnsupportedPlatformError reports an OS/architecture pair with no
// mirror-side naming equivalent. Raised before any network call.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %s/%s", e.OS, e.Arch)
}

// ChecksumMismatchError reports a downloaded archive whose bytes fail
// an integrity check. Check names the failed check ("sha256" or
// "length"). The offending bytes are always discarded before this
// error is returned.
type ChecksumMismatchError struct {
	URL   string
	Check string
	Want  string
	Got   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: %s want %s, got %s", e.URL, e.Check, e.Want, e.Got)
}

// ArchiveFormatError reports an archive that cannot be decoded, or one
// that decodes but lacks the expected entry (Entry is empty in the
// first case).
type ArchiveFormatError struct {
	Archive string
	Entry   string
	Err     error
}

func (e *ArchiveFormatError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("archive %s: no entry named %q", e.Archive, e.Entry)
	}
	return fmt.Sprintf("read archive %s: %v", e.Archive, e.Err)
}

func (e *ArchiveFormatError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure during temp-file or rename
// operations, always with the offending path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Retryable reports whether err is a transient network error. All
// other classes, and nil, are permanent.
func Retryable(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Transient()
	}
	return false
}
