package mirror

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"path"
	"strings"

	"github.com/ocup/ocup/internal/platform"
)

// maxSumsBytes caps checksum manifest reads.
const maxSumsBytes = 1 << 20

// Checksums fetches the release's sha256sum.txt and returns file name
// to hex digest. Verification is only required when the mirror
// publishes a digest, so callers treat any error here as "no checksums
// available" rather than failing the install.
func (c *Client) Checksums(ctx context.Context, plat platform.Platform, rawName string) (map[string]string, error) {
	url := c.SumsURL(plat, rawName)

	var raw []byte
	err := c.policy.Do(ctx, func() error {
		var ferr error
		raw, ferr = c.getAll(ctx, url, maxSumsBytes)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	sums := parseChecksums(raw)
	c.logger.Debug("checksum manifest fetched", "url", url, "entries", len(sums))
	return sums, nil
}

// parseChecksums reads sha256sum-format lines ("<digest>  <name>").
// Comment lines, malformed rows, and digests of the wrong length are
// skipped. Names are reduced to their base name; a leading "*"
// (binary-mode marker) is stripped.
func parseChecksums(raw []byte) map[string]string {
	sums := make(map[string]string)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		digest := strings.ToLower(fields[0])
		if !isHexDigest(digest, sha256.Size*2) {
			continue
		}

		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		sums[path.Base(name)] = digest
	}
	return sums
}

// isHexDigest reports whether s is a lowercase hex string of exactly
// the given length.
func isHexDigest(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
