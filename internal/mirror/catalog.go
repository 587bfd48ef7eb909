package mirror

import (
	"bytes"
	"context"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/platform"
)

// maxListingBytes caps listing reads; real listings are ~100KB.
const maxListingBytes = 8 << 20

// Catalog fetches and parses the release listing for plat's tree.
// One request per invocation, retried on transient failure under the
// client's policy. An empty response is an empty catalog; a non-empty
// response yielding zero entries is a ParseError.
func (c *Client) Catalog(ctx context.Context, plat platform.Platform) (Catalog, error) {
	url := c.ListingURL(plat)

	var entries Catalog
	err := c.policy.Do(ctx, func() error {
		raw, err := c.getAll(ctx, url, maxListingBytes)
		if err != nil {
			return err
		}
		entries = ParseListing(raw)
		if len(entries) == 0 && len(bytes.TrimSpace(raw)) > 0 {
			return &errs.ParseError{URL: url, Size: len(raw)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("catalog fetched", "url", url, "entries", len(entries))
	return entries, nil
}
