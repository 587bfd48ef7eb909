package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/ocup/ocup/internal/config"
	"github.com/ocup/ocup/internal/errs"
	"github.com/ocup/ocup/internal/install"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("ocup %s\n", Version)
			return
		case "install":
			run(runInstall(os.Args[2:]))
			return
		case "list":
			run(runList(os.Args[2:]))
			return
		case "installed":
			run(runInstalled(os.Args[2:]))
			return
		case "match":
			run(runMatch(os.Args[2:]))
			return
		case "help", "--help", "-h":
			printMainHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
			printMainHelp()
			os.Exit(1)
		}
	}

	printMainHelp()
}

func run(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func printMainHelp() {
	fmt.Println("ocup - OpenShift client updater")
	fmt.Println()
	fmt.Println("Installs the oc binary from the release mirror, resolving an")
	fmt.Println("exact version, a major.minor series, or the newest release.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ocup install [version]   Install a client release (default: latest)")
	fmt.Println("  ocup list [version]      List matching releases, newest first")
	fmt.Println("  ocup installed           Show the installed client version")
	fmt.Println("  ocup match               Install the release matching the cluster")
	fmt.Println("  ocup --version           Show version information")
	fmt.Println()
	fmt.Println("Run 'ocup <command> --help' for command options.")
}

// exitCode gives each error class its own code so scripts can tell a
// bad version spec from a broken mirror without parsing messages.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.As(err, new(*errs.UnsupportedPlatformError)):
		return 2
	case errors.As(err, new(*errs.NotFoundError)):
		return 3
	case errors.As(err, new(*errs.NetworkError)):
		return 4
	case errors.As(err, new(*errs.ParseError)):
		return 5
	case errors.As(err, new(*errs.ChecksumMismatchError)):
		return 6
	case errors.As(err, new(*errs.ArchiveFormatError)):
		return 7
	case errors.As(err, new(*errs.IOError)):
		return 8
	default:
		return 1
	}
}

// newLogger builds the CLI logger: warnings by default, everything
// with --verbose, nothing with --quiet.
func newLogger(verbose, quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// signalContext cancels on interrupt so in-flight downloads abort and
// their scratch files are removed before the process exits.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// commonFlags are accepted by every networked subcommand.
type commonFlags struct {
	configPath string
	mirrorURL  string
	target     string
	timeout    string
	insecure   bool
	verbose    bool
	quiet      bool
	showHelp   bool
}

// parseCommon consumes a recognized common flag at args[i]. It returns
// the index of the last argument consumed and whether it matched.
func (f *commonFlags) parseCommon(args []string, i int) (int, bool, error) {
	switch args[i] {
	case "--help", "-h":
		f.showHelp = true
	case "--verbose", "-v":
		f.verbose = true
	case "--quiet", "-q":
		f.quiet = true
	case "--insecure":
		f.insecure = true
	case "--config", "--mirror", "--target", "--timeout":
		name := args[i]
		i++
		if i >= len(args) {
			return i, true, fmt.Errorf("%s requires a value", name)
		}
		switch name {
		case "--config":
			f.configPath = args[i]
		case "--mirror":
			f.mirrorURL = args[i]
		case "--target":
			f.target = args[i]
		case "--timeout":
			f.timeout = args[i]
		}
	default:
		return i, false, nil
	}
	return i, true, nil
}

// loadSettings layers the config file and environment, then applies
// command-line overrides on top.
func loadSettings(f *commonFlags) (config.Settings, error) {
	settings, err := config.Load(f.configPath)
	if err != nil {
		return config.Settings{}, err
	}

	if f.mirrorURL != "" {
		settings.Mirror = f.mirrorURL
	}
	if f.target != "" {
		settings.Target = f.target
	}
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil {
			return config.Settings{}, fmt.Errorf("--timeout: %w", err)
		}
		settings.Timeout.Duration = d
	}
	if f.insecure {
		settings.Insecure = true
	}
	return settings, nil
}

func newManager(settings config.Settings, f *commonFlags) (*install.Manager, error) {
	return install.NewManager(install.Config{
		TargetPath: settings.Target,
		MirrorURL:  settings.Mirror,
		Timeout:    settings.Timeout.Duration,
		Retry:      settings.RetryPolicy(),
		Insecure:   settings.Insecure,
		Progress:   !f.quiet && term.IsTerminal(int(os.Stderr.Fd())),
		Logger:     newLogger(f.verbose, f.quiet),
	})
}
