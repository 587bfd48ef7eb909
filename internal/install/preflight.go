package install

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/ocup/ocup/internal/errs"
)

// diskHeadroom multiplies the archive size when estimating required
// free space: the archive and the extracted binary coexist briefly,
// and the binary decompresses to roughly twice the archive.
const diskHeadroom = 4

// preflight checks the target filesystem for room before any bytes
// move. Advisory only: an unknown archive size or an uninspectable
// filesystem skips the check rather than failing the install.
func (m *Manager) preflight(ctx context.Context, url string) error {
	size, err := m.client.ContentLength(ctx, url)
	if err != nil || size <= 0 {
		m.logger.Debug("archive size unknown, skipping disk preflight", "url", url, "err", err)
		return nil
	}

	dir := m.targetDir()
	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		m.logger.Debug("disk usage unavailable, skipping preflight", "path", dir, "err", err)
		return nil
	}

	need := uint64(size) * diskHeadroom
	if usage.Free < need {
		return &errs.IOError{
			Op:   "preflight",
			Path: dir,
			Err:  fmt.Errorf("need about %d MiB free, have %d MiB", need>>20, usage.Free>>20),
		}
	}

	m.logger.Debug("disk preflight passed", "path", dir, "free_mib", usage.Free>>20, "need_mib", need>>20)
	return nil
}
