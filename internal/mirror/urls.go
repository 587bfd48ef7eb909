package mirror

import (
	"fmt"

	"github.com/ocup/ocup/internal/platform"
)

// ListingURL is the release directory listing for plat's tree.
func (c *Client) ListingURL(plat platform.Platform) string {
	return fmt.Sprintf("%s/%s/clients/ocp/", c.base, plat.ArchDir)
}

// ArchiveURL is the client archive for one release, composed
// deterministically from the release's verbatim directory name.
func (c *Client) ArchiveURL(plat platform.Platform, rawName string) string {
	return fmt.Sprintf("%s/%s/clients/ocp/%s/%s", c.base, plat.ArchDir, rawName, ArchiveFilename(plat, rawName))
}

// SumsURL is the release's checksum manifest.
func (c *Client) SumsURL(plat platform.Platform, rawName string) string {
	return fmt.Sprintf("%s/%s/clients/ocp/%s/sha256sum.txt", c.base, plat.ArchDir, rawName)
}

// ArchiveFilename is the file name the mirror uses for the client
// archive of one release on one platform. Also the key into the
// checksum manifest.
func ArchiveFilename(plat platform.Platform, rawName string) string {
	return fmt.Sprintf("openshift-client-%s-%s.tar.gz", plat.Infix, rawName)
}
