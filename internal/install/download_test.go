package install

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/mirror"
)

func newDownloaderFor(server *httptest.Server) *Downloader {
	client := mirror.NewClient(server.URL, mirror.WithRetryPolicy(fastRetry()))
	return NewDownloader(client, fastRetry(), discardLogger(), false)
}

func TestFetchWritesDestination(t *testing.T) {
	content := "archive payload"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, content)
	}))
	defer server.Close()

	destDir := t.TempDir()
	destPath := filepath.Join(destDir, "client.tar.gz")

	d := newDownloaderFor(server)
	if err := d.Fetch(context.Background(), server.URL+"/a.tar.gz", destPath, ""); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != content {
		t.Errorf("destination content = %q, want %q", got, content)
	}
	assertDirContains(t, destDir, "client.tar.gz")
}

func TestFetchVerifiesDigest(t *testing.T) {
	content := []byte("digested payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "client.tar.gz")
	d := newDownloaderFor(server)
	if err := d.Fetch(context.Background(), server.URL+"/a.tar.gz", destPath, digestOf(content)); err != nil {
		t.Fatalf("Fetch() with matching digest error: %v", err)
	}
}

func TestFetchDigestMismatch(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = io.WriteString(w, "tampered payload")
	}))
	defer server.Close()

	destDir := t.TempDir()
	destPath := filepath.Join(destDir, "client.tar.gz")

	d := newDownloaderFor(server)
	err := d.Fetch(context.Background(), server.URL+"/a.tar.gz", destPath, strings.Repeat("0", 64))

	var sumErr *errs.ChecksumMismatchError
	if !errors.As(err, &sumErr) {
		t.Fatalf("error = %v, want ChecksumMismatchError", err)
	}
	if sumErr.Check != "sha256" {
		t.Errorf("Check = %q, want %q", sumErr.Check, "sha256")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (corrupt bytes must not be retried)", got)
	}
	assertDirContains(t, destDir)
}

// truncatingTransport declares more bytes than it delivers.
type truncatingTransport struct{}

func (truncatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := "short"
	header := make(http.Header)
	header.Set("Content-Length", "1000")
	return &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: 1000,
		Request:       req,
	}, nil
}

func TestFetchLengthMismatch(t *testing.T) {
	client := mirror.NewClient("http://mirror.invalid",
		mirror.WithRetryPolicy(fastRetry()),
		mirror.WithHTTPClient(&http.Client{Transport: truncatingTransport{}}))
	d := NewDownloader(client, fastRetry(), discardLogger(), false)

	destDir := t.TempDir()
	destPath := filepath.Join(destDir, "client.tar.gz")

	err := d.Fetch(context.Background(), "http://mirror.invalid/a.tar.gz", destPath, "")

	var sumErr *errs.ChecksumMismatchError
	if !errors.As(err, &sumErr) {
		t.Fatalf("error = %v, want ChecksumMismatchError", err)
	}
	if sumErr.Check != "length" {
		t.Errorf("Check = %q, want %q", sumErr.Check, "length")
	}
	if sumErr.Want != "1000" || sumErr.Got != "5" {
		t.Errorf("Want/Got = %s/%s, want 1000/5", sumErr.Want, sumErr.Got)
	}
	assertDirContains(t, destDir)
}

func TestFetchRestartsAbortedStream(t *testing.T) {
	content := "full archive payload"
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, content[:len(content)/2])
			w.(http.Flusher).Flush()
			panic(http.ErrAbortHandler)
		}
		_, _ = io.WriteString(w, content)
	}))
	defer server.Close()

	destDir := t.TempDir()
	destPath := filepath.Join(destDir, "client.tar.gz")

	d := newDownloaderFor(server)
	if err := d.Fetch(context.Background(), server.URL+"/a.tar.gz", destPath, ""); err != nil {
		t.Fatalf("Fetch() error after restart: %v", err)
	}

	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != content {
		t.Errorf("destination content = %q, want %q (no partial carryover)", got, content)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	destDir := t.TempDir()
	destPath := filepath.Join(destDir, "client.tar.gz")

	d := newDownloaderFor(server)
	err := d.Fetch(context.Background(), server.URL+"/a.tar.gz", destPath, "")

	var netErr *errs.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", netErr.Status)
	}
	assertDirContains(t, destDir)
}
