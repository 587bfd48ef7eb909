package main

import (
	"errors"
	"fmt"

	"github.com/ocup/ocup/internal/occlient"
	"github.com/ocup/ocup/internal/version"
)

type matchFlags struct {
	commonFlags
	dryRun bool
}

func parseMatchFlags(args []string) (*matchFlags, error) {
	flags := &matchFlags{}
	for i := 0; i < len(args); i++ {
		if args[i] == "--dry-run" {
			flags.dryRun = true
			continue
		}
		next, matched, err := flags.parseCommon(args, i)
		if err != nil {
			return nil, err
		}
		if matched {
			i = next
			continue
		}
		return nil, fmt.Errorf("unknown argument: %s", args[i])
	}
	return flags, nil
}

// runMatch aligns the installed client with the logged-in cluster:
// it asks the current binary for the cluster version, then installs
// the newest release of that major.minor series.
func runMatch(args []string) error {
	flags, err := parseMatchFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printMatchHelp()
		return nil
	}

	settings, err := loadSettings(&flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := occlient.NewClient(settings.Target, newLogger(flags.verbose, flags.quiet))
	cluster, err := client.ClusterVersion(ctx)
	if errors.Is(err, occlient.ErrNotInstalled) {
		return fmt.Errorf("no client installed at %s\nRun 'ocup install' first", settings.Target)
	}
	if errors.Is(err, occlient.ErrNoCluster) {
		return fmt.Errorf("the client reports no cluster version\nLog in with 'oc login' first")
	}
	if err != nil {
		return err
	}

	spec, err := version.ParseSpec(fmt.Sprintf("%d.%d", cluster.Major(), cluster.Minor()))
	if err != nil {
		return err
	}

	manager, err := newManager(settings, &flags.commonFlags)
	if err != nil {
		return err
	}

	if flags.dryRun {
		release, err := manager.Resolve(ctx, spec)
		if err != nil {
			return err
		}
		fmt.Printf("Cluster is %s, would install oc %s\n", cluster, release.Name)
		return nil
	}

	result, err := manager.Install(ctx, spec)
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Printf("Cluster is %s, installed oc %s at %s\n", cluster, result.Name, result.Path)
	}
	return nil
}

func printMatchHelp() {
	fmt.Println("Usage: ocup match [options]")
	fmt.Println()
	fmt.Println("Install the newest client release from the cluster's own")
	fmt.Println("major.minor series. Requires an installed client that is")
	fmt.Println("logged in to a cluster.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --dry-run          Resolve and report, do not install")
	fmt.Println("  --config <file>    Read settings from this file")
	fmt.Println("  --mirror <url>     Release mirror base URL")
	fmt.Println("  --target <path>    Install path for the binary")
	fmt.Println("  --timeout <dur>    Per-request timeout, for example 30s")
	fmt.Println("  --insecure         Skip TLS certificate verification")
	fmt.Println("  -v, --verbose      Log every pipeline step")
	fmt.Println("  -q, --quiet        Suppress all output except errors")
	fmt.Println("  -h, --help         Show this help")
}
