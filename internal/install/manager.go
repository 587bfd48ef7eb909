package install

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/mirror"
	"github.com/ocup/ocup/internal/platform"
	"github.com/ocup/ocup/internal/retry"
	"github.com/ocup/ocup/internal/version"
)

// Config holds configuration for the install manager.
type Config struct {
	// TargetPath is the final binary path, for example ~/.local/bin/oc.
	TargetPath string
	// MirrorURL overrides the release mirror base URL.
	MirrorURL string
	// OS and Arch override the detected platform, mainly for tests.
	OS   string
	Arch string
	// Timeout bounds a single mirror request.
	Timeout time.Duration
	// Retry bounds re-attempts of transient network failures.
	Retry retry.Policy
	// Insecure disables TLS certificate verification.
	Insecure bool
	// Progress draws a download progress bar on stderr.
	Progress bool
	// Logger receives pipeline diagnostics.
	Logger *slog.Logger
}

// Manager orchestrates catalog fetch, version resolution, download,
// and extraction against one mirror and one install target.
type Manager struct {
	target     string
	binName    string
	plat       platform.Platform
	client     *mirror.Client
	downloader *Downloader
	extractor  *Extractor
	logger     *slog.Logger
}

// InstallResult reports a completed install.
type InstallResult struct {
	Version *semver.Version
	Name    string
	Path    string
}

// NewManager validates config and fixes the platform mapping. An
// unsupported platform fails here, before any network call.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TargetPath == "" {
		return nil, fmt.Errorf("target path is required")
	}

	binName := filepath.Base(cfg.TargetPath)
	if binName == "." || binName == string(filepath.Separator) {
		return nil, fmt.Errorf("target path %q does not name a file", cfg.TargetPath)
	}

	plat, err := platform.Resolve(cfg.OS, cfg.Arch)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy := cfg.Retry
	if policy.MaxAttempts == 0 {
		policy = retry.Default()
	}

	opts := []mirror.Option{
		mirror.WithRetryPolicy(policy),
		mirror.WithLogger(logger),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mirror.WithTimeout(cfg.Timeout))
	}
	if cfg.Insecure {
		opts = append(opts, mirror.WithInsecureTLS())
	}
	client := mirror.NewClient(cfg.MirrorURL, opts...)

	return &Manager{
		target:     cfg.TargetPath,
		binName:    binName,
		plat:       plat,
		client:     client,
		downloader: NewDownloader(client, policy, logger, cfg.Progress),
		extractor:  NewExtractor(logger),
		logger:     logger,
	}, nil
}

// Platform returns the mirror platform mapping fixed at construction.
func (m *Manager) Platform() platform.Platform {
	return m.plat
}

// Install resolves spec against a fresh catalog, downloads the
// matching archive, and installs the extracted binary at the target
// path. The archive and all scratch files are gone when it returns,
// success or not.
func (m *Manager) Install(ctx context.Context, spec version.Spec) (*InstallResult, error) {
	release, err := m.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	m.logger.Info("installing", "version", release.Name, "platform", string(m.plat.Key))

	wantDigest := m.lookupDigest(ctx, release.Name)
	url := m.client.ArchiveURL(m.plat, release.Name)

	if err := m.preflight(ctx, url); err != nil {
		return nil, err
	}

	destDir := m.targetDir()
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &errs.IOError{Op: "mkdir", Path: destDir, Err: err}
	}

	// The archive lands in the target directory so every later step,
	// rename included, stays on one filesystem.
	archivePath := filepath.Join(destDir, tempName(m.binName, "download"))
	if err := m.downloader.Fetch(ctx, url, archivePath, wantDigest); err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(archivePath) }()

	if err := m.extractor.ExtractBinary(archivePath, m.target, m.binName); err != nil {
		return nil, err
	}

	m.logger.Info("installed", "version", release.Name, "path", m.target)
	return &InstallResult{
		Version: release.Version,
		Name:    release.Name,
		Path:    m.target,
	}, nil
}

// List resolves spec against a fresh catalog and returns every
// matching release, the newest first.
func (m *Manager) List(ctx context.Context, spec version.Spec) ([]mirror.Release, error) {
	catalog, err := m.client.Catalog(ctx, m.plat)
	if err != nil {
		return nil, err
	}
	return version.List(catalog, spec)
}

// Resolve picks the single release spec selects from a fresh catalog
// without installing anything.
func (m *Manager) Resolve(ctx context.Context, spec version.Spec) (mirror.Release, error) {
	catalog, err := m.client.Catalog(ctx, m.plat)
	if err != nil {
		return mirror.Release{}, err
	}

	release, err := version.Resolve(catalog, spec)
	if err != nil {
		return mirror.Release{}, err
	}

	m.logger.Debug("version resolved", "spec", spec.String(), "version", release.Name)
	return release, nil
}

// lookupDigest fetches the release's checksum manifest and picks the
// digest for this platform's archive. The manifest is best effort:
// when it is unavailable or lacks the archive, the install proceeds
// with only the length check.
func (m *Manager) lookupDigest(ctx context.Context, rawName string) string {
	sums, err := m.client.Checksums(ctx, m.plat, rawName)
	if err != nil {
		m.logger.Warn("checksum manifest unavailable, skipping digest verification", "version", rawName, "err", err)
		return ""
	}

	file := mirror.ArchiveFilename(m.plat, rawName)
	digest, ok := sums[file]
	if !ok {
		m.logger.Warn("archive not in checksum manifest, skipping digest verification", "file", file)
		return ""
	}
	return digest
}

func (m *Manager) targetDir() string {
	return filepath.Dir(m.target)
}

// tempName builds a hidden scratch file name, unique per call so
// concurrent installs in one directory never collide.
func tempName(base, stage string) string {
	return fmt.Sprintf(".%s-%s.%s.partial", base, uuid.NewString()[:8], stage)
}
