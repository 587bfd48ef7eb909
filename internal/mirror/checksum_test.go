package mirror

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ocup/ocup/internal/errs"
)

const sumsManifest = `# sha256 checksums for 4.19.0
b5c0e8ab61dcee9e6bf4386b0d08c1c8502b3b7505446b9a2c1c1e6b289a9c1e  openshift-client-linux-4.19.0.tar.gz
1f6f9ef0a1d3b8249bd225e78d2fe866e3f6c03ab5a0ddab14d87bc1ba8dcea9  openshift-client-mac-4.19.0.tar.gz
6d3f5a9b8c7e2d1f0a4b8c6d5e3f2a1b0c9d8e7f6a5b4c3d2e1f0a9b8c7d6e5f *openshift-client-mac-arm64-4.19.0.tar.gz
ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789  openshift-install-linux-4.19.0.tar.gz
not-a-digest  openshift-client-windows-4.19.0.zip
deadbeef  short-digest.tar.gz
orphan-field
`

func TestParseChecksums(t *testing.T) {
	sums := parseChecksums([]byte(sumsManifest))

	tests := []struct {
		name string
		want string
	}{
		{"openshift-client-linux-4.19.0.tar.gz", "b5c0e8ab61dcee9e6bf4386b0d08c1c8502b3b7505446b9a2c1c1e6b289a9c1e"},
		{"openshift-client-mac-4.19.0.tar.gz", "1f6f9ef0a1d3b8249bd225e78d2fe866e3f6c03ab5a0ddab14d87bc1ba8dcea9"},
		{"openshift-client-mac-arm64-4.19.0.tar.gz", "6d3f5a9b8c7e2d1f0a4b8c6d5e3f2a1b0c9d8e7f6a5b4c3d2e1f0a9b8c7d6e5f"},
		{"openshift-install-linux-4.19.0.tar.gz", "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"},
	}
	for _, tt := range tests {
		if got := sums[tt.name]; got != tt.want {
			t.Errorf("sums[%q] = %q, want %q", tt.name, got, tt.want)
		}
	}

	if len(sums) != len(tests) {
		t.Errorf("parsed %d entries, want %d (malformed rows must be dropped)", len(sums), len(tests))
	}
}

func TestParseChecksumsEmpty(t *testing.T) {
	if sums := parseChecksums(nil); len(sums) != 0 {
		t.Errorf("expected no entries from empty manifest, got %v", sums)
	}
}

func TestChecksumsFetch(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sumsManifest))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRetryPolicy(fastPolicy()))
	sums, err := client.Checksums(context.Background(), testPlatform(t), "4.19.0")
	if err != nil {
		t.Fatalf("Checksums() error: %v", err)
	}

	if want := "/x86_64/clients/ocp/4.19.0/sha256sum.txt"; gotPath != want {
		t.Errorf("requested path = %q, want %q", gotPath, want)
	}
	if _, ok := sums["openshift-client-linux-4.19.0.tar.gz"]; !ok {
		t.Errorf("manifest missing expected archive entry, got %v", sums)
	}
}

func TestChecksumsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	client := NewClient(server.URL, WithRetryPolicy(fastPolicy()))
	_, err := client.Checksums(context.Background(), testPlatform(t), "4.19.0")

	var netErr *errs.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", netErr.Status)
	}
	if !strings.HasSuffix(netErr.URL, "/sha256sum.txt") {
		t.Errorf("error URL = %q, want sha256sum.txt suffix", netErr.URL)
	}
}
