// Package occlient inspects an installed OpenShift client binary by
// invoking it: the version it was built from, and the version of the
// cluster the current kubeconfig context points at.
package occlient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNotInstalled reports that no binary exists at the client's path.
var ErrNotInstalled = errors.New("client binary is not installed")

// ErrNoCluster reports that the client printed no cluster version,
// usually because no login session exists.
var ErrNoCluster = errors.New("no cluster version reported")

// Client invokes one installed binary. The binary inherits the full
// environment so kubeconfig discovery works as it would interactively.
type Client struct {
	bin    string
	logger *slog.Logger
}

// NewClient creates a client for the binary at bin.
func NewClient(bin string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{bin: bin, logger: logger}
}

// versionOutput is the subset of `oc version -o json` the tool reads.
type versionOutput struct {
	ClientVersion struct {
		GitVersion string `json:"gitVersion"`
	} `json:"clientVersion"`
	ReleaseClientVersion string `json:"releaseClientVersion"`
	OpenShiftVersion     string `json:"openshiftVersion"`
}

// InstalledVersion reports the version of the installed binary, or
// ErrNotInstalled when the binary is absent.
func (c *Client) InstalledVersion(ctx context.Context) (*semver.Version, error) {
	out, err := c.run(ctx, "version", "--client", "-o", "json")
	if err != nil {
		return nil, err
	}

	raw := out.ReleaseClientVersion
	if raw == "" {
		raw = out.ClientVersion.GitVersion
	}
	if raw == "" {
		return nil, fmt.Errorf("%s reported no client version", c.bin)
	}
	return parseReported(raw)
}

// ClusterVersion reports the OpenShift version of the connected
// cluster, or ErrNoCluster when the client prints none.
func (c *Client) ClusterVersion(ctx context.Context) (*semver.Version, error) {
	out, err := c.run(ctx, "version", "-o", "json")
	if err != nil {
		return nil, err
	}

	if out.OpenShiftVersion == "" {
		return nil, ErrNoCluster
	}
	return parseReported(out.OpenShiftVersion)
}

// run executes the binary and decodes its JSON output. Some failures
// still produce usable JSON on stdout (an unreachable cluster, for
// one), so decoding is attempted before the exit status is judged.
func (c *Client) run(ctx context.Context, args ...string) (*versionOutput, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)

	stdout, err := cmd.Output()

	var out versionOutput
	if len(stdout) > 0 {
		if jsonErr := json.Unmarshal(stdout, &out); jsonErr == nil {
			c.logger.Debug("client queried", "bin", c.bin, "args", args)
			return &out, nil
		}
	}

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotInstalled
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("run %s: %s", c.bin, firstLine(exitErr.Stderr))
		}
		return nil, fmt.Errorf("run %s: %w", c.bin, err)
	}
	return nil, fmt.Errorf("run %s: unrecognized version output", c.bin)
}

// parseReported parses a version string as the client prints it,
// tolerating a leading "v" and build suffixes.
func parseReported(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil, fmt.Errorf("unrecognized version %q: %w", raw, err)
	}
	return v, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
