package main

import (
	"fmt"
	"strings"

	"github.com/ocup/ocup/internal/version"
)

type listFlags struct {
	commonFlags
	spec string
}

func parseListFlags(args []string) (*listFlags, error) {
	flags := &listFlags{}
	for i := 0; i < len(args); i++ {
		next, matched, err := flags.parseCommon(args, i)
		if err != nil {
			return nil, err
		}
		if matched {
			i = next
			continue
		}
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("unknown flag: %s", arg)
		}
		if flags.spec != "" {
			return nil, fmt.Errorf("expected at most one version, got %q and %q", flags.spec, arg)
		}
		flags.spec = arg
	}
	return flags, nil
}

func runList(args []string) error {
	flags, err := parseListFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printListHelp()
		return nil
	}

	spec, err := version.ParseSpec(flags.spec)
	if err != nil {
		return err
	}

	settings, err := loadSettings(&flags.commonFlags)
	if err != nil {
		return err
	}

	manager, err := newManager(settings, &flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	releases, err := manager.List(ctx, spec)
	if err != nil {
		return err
	}

	for _, release := range releases {
		fmt.Println(release.Name)
	}
	return nil
}

func printListHelp() {
	fmt.Println("Usage: ocup list [version] [options]")
	fmt.Println()
	fmt.Println("List client releases on the mirror, newest first. A version")
	fmt.Println("argument narrows the list the same way 'install' resolves it.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <file>    Read settings from this file")
	fmt.Println("  --mirror <url>     Release mirror base URL")
	fmt.Println("  --timeout <dur>    Per-request timeout, for example 30s")
	fmt.Println("  --insecure         Skip TLS certificate verification")
	fmt.Println("  -v, --verbose      Log every pipeline step")
	fmt.Println("  -q, --quiet        Suppress all output except errors")
	fmt.Println("  -h, --help         Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ocup list        # every release for this platform")
	fmt.Println("  ocup list 4.14   # every 4.14.x release")
}
