// Package install orchestrates the client install pipeline: resolve a
// version spec against the mirror catalog, download the matching
// archive, and swap the extracted binary into place atomically.
//
// # Pipeline
//
// Stages run strictly in order, each feeding the next:
//  1. Platform mapping (before any network call)
//  2. Catalog fetch and version resolution
//  3. Checksum manifest lookup (best effort)
//  4. Streamed download with size and digest verification
//  5. Extraction and atomic rename over the target path
//
// # Failure Model
//
// Every scratch file lives in the target directory, hidden and
// uniquely named, and is removed on every exit path. A failed or
// interrupted install therefore leaves the previous binary untouched
// and no partial artifacts behind. Concurrent installs race only on
// the final rename, so the worst outcome is last writer wins.
//
// # Usage
//
//	mgr, err := install.NewManager(install.Config{
//	    TargetPath: "/home/user/.local/bin/oc",
//	})
//	if err != nil {
//	    return err
//	}
//
//	spec, err := version.ParseSpec("4.19")
//	if err != nil {
//	    return err
//	}
//
//	result, err := mgr.Install(ctx, spec)
package install
