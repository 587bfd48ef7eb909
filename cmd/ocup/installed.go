package main

import (
	"errors"
	"fmt"

	"github.com/ocup/ocup/internal/occlient"
)

type installedFlags struct {
	commonFlags
}

func parseInstalledFlags(args []string) (*installedFlags, error) {
	flags := &installedFlags{}
	for i := 0; i < len(args); i++ {
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

func runInstalled(args []string) error {
	flags, err := parseInstalledFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printInstalledHelp()
		return nil
	}

	settings, err := loadSettings(&flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := occlient.NewClient(settings.Target, newLogger(flags.verbose, flags.quiet))
	installed, err := client.InstalledVersion(ctx)
	if errors.Is(err, occlient.ErrNotInstalled) {
		return fmt.Errorf("no client installed at %s\nRun 'ocup install' first", settings.Target)
	}
	if err != nil {
		return err
	}

	fmt.Printf("oc %s at %s\n", installed, settings.Target)
	return nil
}

func printInstalledHelp() {
	fmt.Println("Usage: ocup installed [options]")
	fmt.Println()
	fmt.Println("Show the version of the installed client by asking the binary")
	fmt.Println("at the configured target path.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <file>    Read settings from this file")
	fmt.Println("  --target <path>    Path of the installed binary")
	fmt.Println("  -v, --verbose      Log every step")
	fmt.Println("  -q, --quiet        Suppress all output except errors")
	fmt.Println("  -h, --help         Show this help")
}
