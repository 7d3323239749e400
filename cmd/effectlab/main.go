// Package main is the entry point for effectlab.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/effectlab/internal/app"
	"github.com/dshills/effectlab/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	dumpConfig bool
	dumpFormat string
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	if cli.dumpConfig {
		return dumpConfig(cli)
	}

	// Without a tty on both ends the terminal UI cannot run.
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		cli.Headless = true
	}

	application, err := app.New(cli.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func dumpConfig(cli cliOptions) int {
	cfg, err := config.Load(config.Options{
		Path:     cli.ConfigPath,
		Required: cli.ConfigPath != "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := config.Encode(os.Stdout, cfg, cli.dumpFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var cli cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml or .json)")
	flag.StringVar(&cli.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&cli.ScriptPath, "script", "", "Lua script to run at startup")
	flag.StringVar(&cli.ScriptPath, "s", "", "Lua script to run at startup (shorthand)")
	flag.StringVar(&cli.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&cli.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&cli.Headless, "headless", false, "Read Lua from stdin and write JSON lines to stdout")
	flag.BoolVar(&cli.dumpConfig, "dump-config", false, "Print the effective configuration and exit")
	flag.StringVar(&cli.dumpFormat, "dump-format", "toml", "Format for -dump-config (toml, yaml)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "effectlab - animation sequencing playground\n\n")
		fmt.Fprintf(os.Stderr, "Usage: effectlab [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  effectlab                          Open the terminal playground\n")
		fmt.Fprintf(os.Stderr, "  effectlab -c effectlab.toml        Use a configuration file\n")
		fmt.Fprintf(os.Stderr, "  effectlab -s demo.lua              Run a script at startup\n")
		fmt.Fprintf(os.Stderr, "  echo 'fx.chain()' | effectlab      Drive the engine headless\n")
		fmt.Fprintf(os.Stderr, "  effectlab -dump-config -dump-format yaml\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("effectlab %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if cli.LogLevel != "" && !app.ValidLogLevel(cli.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.LogLevel)
		os.Exit(1)
	}

	return cli
}
