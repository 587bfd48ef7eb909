// Package config loads tool settings: built-in defaults, then an
// optional TOML file, then OCUP_* environment variables, each layer
// overriding the previous one.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ocup/ocup/internal/retry"
)

// Settings holds everything the CLI feeds into the install pipeline.
type Settings struct {
	// Mirror is the release mirror base URL. Empty means the public
	// mirror.
	Mirror string `toml:"mirror"`
	// Target is the install path for the client binary.
	Target string `toml:"target"`
	// Timeout bounds a single mirror request.
	Timeout duration `toml:"timeout"`
	// Retries is the attempt budget for transient network failures.
	Retries int `toml:"retries"`
	// BaseDelay is the first retry delay; later delays grow from it.
	BaseDelay duration `toml:"base_delay"`
	// Insecure disables TLS certificate verification.
	Insecure bool `toml:"insecure"`
}

// duration lets TOML and environment values use Go duration syntax
// ("30s", "5m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// RetryPolicy converts the retry settings into a policy.
func (s *Settings) RetryPolicy() retry.Policy {
	p := retry.Default()
	if s.Retries > 0 {
		p.MaxAttempts = s.Retries
	}
	if s.BaseDelay.Duration > 0 {
		p.BaseDelay = s.BaseDelay.Duration
	}
	return p
}

// Defaults returns the settings used with no config file and no
// environment overrides.
func Defaults() Settings {
	return Settings{
		Target:    defaultTarget(),
		Timeout:   duration{5 * time.Minute},
		Retries:   3,
		BaseDelay: duration{time.Second},
	}
}

// DefaultPath returns the config file location honored when no path is
// given explicitly.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ocup", "config.toml")
}

// Load layers settings: defaults, then the TOML file at path (or the
// default location when path is empty), then OCUP_* environment
// variables. A missing file at the default location is fine; a missing
// file named explicitly is an error.
func Load(path string) (Settings, error) {
	s := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		_, err := toml.DecodeFile(path, &s)
		switch {
		case err == nil:
		case os.IsNotExist(err) && !explicit:
		default:
			return Settings{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}

	s.Target = expandHome(s.Target)
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv("OCUP_MIRROR"); v != "" {
		s.Mirror = v
	}
	if v := os.Getenv("OCUP_TARGET"); v != "" {
		s.Target = v
	}
	if v := os.Getenv("OCUP_TIMEOUT"); v != "" {
		if err := s.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("OCUP_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("OCUP_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OCUP_RETRIES: %w", err)
		}
		s.Retries = n
	}
	if v := os.Getenv("OCUP_BASE_DELAY"); v != "" {
		if err := s.BaseDelay.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("OCUP_BASE_DELAY: %w", err)
		}
	}
	if v := os.Getenv("OCUP_INSECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OCUP_INSECURE: %w", err)
		}
		s.Insecure = b
	}
	return nil
}

func (s *Settings) validate() error {
	if s.Target == "" {
		return fmt.Errorf("no install target configured")
	}
	if s.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", s.Retries)
	}
	if s.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout.Duration)
	}
	if s.BaseDelay.Duration < 0 {
		return fmt.Errorf("base delay must not be negative, got %s", s.BaseDelay.Duration)
	}
	return nil
}

// defaultTarget is ~/.local/bin/oc, the conventional per-user binary
// location on the supported platforms.
func defaultTarget() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "bin", "oc")
}

// expandHome resolves a leading ~/ against the current home directory.
func expandHome(path string) string {
	if path == "~" || len(path) >= 2 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
