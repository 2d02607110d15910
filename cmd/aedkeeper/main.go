package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuems/aedkeeper/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/aedkeeper/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to sync_interval_seconds)")
	offline := flag.Bool("offline", false, "start with the device offline")
	exportPath := flag.String("export", "", "write the local store to a zstd archive and exit")
	importPath := flag.String("import", "", "restore the local store from an archive and exit")
	flag.Parse()

	if *exportPath != "" && *importPath != "" {
		fmt.Fprintln(os.Stderr, "aedkeeper: -export and -import are mutually exclusive")
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		PrefsPath:    *prefsPath,
		StartOffline: *offline,
		ExportPath:   *exportPath,
		ImportPath:   *importPath,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "aedkeeper: %v\n", err)
		return 1
	}
	return 0
}
