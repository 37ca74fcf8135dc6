package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	dispatchservice "delivery-dispatch/cmd/dispatch_service"
)

func usage(out *os.File) {
	fmt.Fprintln(out, "Usage: delivery-dispatch <mode> [flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Modes:")
	fmt.Fprintln(out, "  serve     Run the dispatch service (HTTP + WebSocket + consumers)")
	fmt.Fprintln(out, "  migrate   Apply pending database migrations and exit")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Run 'delivery-dispatch <mode> --help' for mode flags.")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "--help" || os.Args[1] == "-h" {
		usage(os.Stdout)
		if len(os.Args) < 2 {
			os.Exit(2)
		}
		return
	}
	mode, modeArgs := os.Args[1], os.Args[2:]

	// context cancelled on SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch mode {

	case "serve":
		fs := flag.NewFlagSet("serve", flag.ContinueOnError)
		configPath := fs.String("config", "config/config.yaml", "Path to the YAML configuration file")
		maxConc := fs.Int("max-concurrent", 100, "Maximum number of concurrent HTTP requests to process")
		if err := fs.Parse(modeArgs); err != nil {
			if err == flag.ErrHelp {
				return
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		if *maxConc < 1 {
			fmt.Fprintln(os.Stderr, "Error: --max-concurrent must be >= 1")
			os.Exit(2)
		}
		if err := dispatchservice.Run(ctx, *configPath, *maxConc); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	case "migrate":
		fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
		configPath := fs.String("config", "config/config.yaml", "Path to the YAML configuration file")
		down := fs.Bool("down", false, "Roll back all migrations instead of applying them")
		if err := fs.Parse(modeArgs); err != nil {
			if err == flag.ErrHelp {
				return
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		if err := dispatchservice.Migrate(*configPath, *down); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "Error: unknown mode", mode)
		usage(os.Stderr)
		os.Exit(2)
	}

	// tiny delay to let deferred logs flush on very fast exits
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Millisecond):
	}
}
