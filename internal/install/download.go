package install

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/mirror"
	"github.com/ocup/ocup/internal/retry"
)

// Downloader streams release archives to disk with integrity checks.
// Transient network failures restart the download from the beginning;
// there is no partial resume.
type Downloader struct {
	client   *mirror.Client
	policy   retry.Policy
	logger   *slog.Logger
	progress bool
}

// NewDownloader creates a downloader. With progress enabled a byte
// progress bar is drawn on stderr while streaming.
func NewDownloader(client *mirror.Client, policy retry.Policy, logger *slog.Logger, progress bool) *Downloader {
	return &Downloader{
		client:   client,
		policy:   policy,
		logger:   logger,
		progress: progress,
	}
}

// Fetch downloads url into destPath. The server-declared content
// length and, when wantDigest is non-empty, the SHA-256 digest are
// verified after streaming; a mismatch discards the bytes and fails
// without retry. destPath is removed on every failure.
func (d *Downloader) Fetch(ctx context.Context, url, destPath, wantDigest string) error {
	return d.policy.Do(ctx, func() error {
		return d.fetchOnce(ctx, url, destPath, wantDigest)
	})
}

func (d *Downloader) fetchOnce(ctx context.Context, url, destPath, wantDigest string) error {
	body, declared, err := d.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	out, err := os.Create(destPath)
	if err != nil {
		return &errs.IOError{Op: "create", Path: destPath, Err: err}
	}

	cleanupNeeded := true
	defer func() {
		_ = out.Close()
		if cleanupNeeded {
			_ = os.Remove(destPath)
		}
	}()

	hasher := sha256.New()
	var w io.Writer = io.MultiWriter(out, hasher)

	var bar *progressbar.ProgressBar
	if d.progress {
		bar = progressbar.DefaultBytes(declared, "downloading")
		w = io.MultiWriter(w, bar)
	}

	written, err := io.Copy(w, body)
	if bar != nil {
		_ = bar.Close()
	}
	if err != nil {
		// Stream died mid-body; same class as a failed request, so
		// the policy restarts the download.
		return &errs.NetworkError{URL: url, Err: err}
	}

	if declared >= 0 && written != declared {
		return &errs.ChecksumMismatchError{
			URL:   url,
			Check: "length",
			Want:  strconv.FormatInt(declared, 10),
			Got:   strconv.FormatInt(written, 10),
		}
	}

	if wantDigest != "" {
		got := hex.EncodeToString(hasher.Sum(nil))
		if !strings.EqualFold(got, wantDigest) {
			return &errs.ChecksumMismatchError{
				URL:   url,
				Check: "sha256",
				Want:  strings.ToLower(wantDigest),
				Got:   got,
			}
		}
		d.logger.Debug("digest verified", "url", url, "sha256", got)
	}

	if err := out.Close(); err != nil {
		return &errs.IOError{Op: "close", Path: destPath, Err: err}
	}

	cleanupNeeded = false
	d.logger.Debug("download complete", "url", url, "bytes", written, "path", destPath)
	return nil
}
