package install

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ocup/ocup/internal/errs"
)

// Extractor pulls a single binary out of a gzip-compressed tar archive
// and installs it over the target path with an atomic rename.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractBinary scans archivePath for the first regular entry whose
// base name is binaryName, ignoring any leading directories inside the
// archive, and installs it at destPath. The archive lacking such an
// entry, or not decoding at all, is an ArchiveFormatError.
func (e *Extractor) ExtractBinary(archivePath, destPath, binaryName string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return &errs.IOError{Op: "open", Path: archivePath, Err: err}
	}
	defer func() { _ = archiveFile.Close() }()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return &errs.ArchiveFormatError{Archive: archivePath, Err: err}
	}
	defer func() { _ = gzipReader.Close() }()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return &errs.ArchiveFormatError{Archive: archivePath, Entry: binaryName}
		}
		if err != nil {
			return &errs.ArchiveFormatError{Archive: archivePath, Err: err}
		}

		if header.Typeflag == tar.TypeReg && filepath.Base(header.Name) == binaryName {
			e.logger.Debug("archive entry found", "entry", header.Name, "bytes", header.Size)
			return e.installEntry(tarReader, destPath)
		}
	}
}

// installEntry streams the entry's bytes to a scratch file beside
// destPath, marks it executable, and renames it into place. The
// scratch file is removed on every failure.
func (e *Extractor) installEntry(entry io.Reader, destPath string) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: destDir, Err: err}
	}

	tmpPath := filepath.Join(destDir, tempName(filepath.Base(destPath), "extract"))
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return &errs.IOError{Op: "create", Path: tmpPath, Err: err}
	}

	cleanupNeeded := true
	defer func() {
		_ = out.Close()
		if cleanupNeeded {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(out, entry); err != nil {
		return &errs.IOError{Op: "write", Path: tmpPath, Err: err}
	}

	if err := out.Close(); err != nil {
		return &errs.IOError{Op: "close", Path: tmpPath, Err: err}
	}

	// The create mode above is clipped by the umask.
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		return &errs.IOError{Op: "chmod", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return &errs.IOError{Op: "rename", Path: tmpPath, Err: err}
	}

	cleanupNeeded = false
	e.logger.Debug("binary installed", "path", destPath)
	return nil
}
