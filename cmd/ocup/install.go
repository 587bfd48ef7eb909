package main

import (
	"fmt"
	"strings"

	"github.com/ocup/ocup/internal/version"
)

type installFlags struct {
	commonFlags
	spec string
}

func parseInstallFlags(args []string) (*installFlags, error) {
	flags := &installFlags{}
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

func runInstall(args []string) error {
	flags, err := parseInstallFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printInstallHelp()
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

	result, err := manager.Install(ctx, spec)
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Printf("Installed oc %s at %s\n", result.Name, result.Path)
	}
	return nil
}

func printInstallHelp() {
	fmt.Println("Usage: ocup install [version] [options]")
	fmt.Println()
	fmt.Println("Install an OpenShift client release. The version may be exact")
	fmt.Println("(4.19.2), a series (4.19), a major line (4), or omitted for the")
	fmt.Println("newest stable release.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <file>    Read settings from this file")
	fmt.Println("  --mirror <url>     Release mirror base URL")
	fmt.Println("  --target <path>    Install path for the binary")
	fmt.Println("  --timeout <dur>    Per-request timeout, for example 30s")
	fmt.Println("  --insecure         Skip TLS certificate verification")
	fmt.Println("  -v, --verbose      Log every pipeline step")
	fmt.Println("  -q, --quiet        Suppress all output except errors")
	fmt.Println("  -h, --help         Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ocup install              # newest stable release")
	fmt.Println("  ocup install 4.19         # newest 4.19.x")
	fmt.Println("  ocup install 4.19.2-rc.3  # an exact release candidate")
}
