// Command tagbridge bridges an MQTT broker and an OPC UA server.
//
// Data changes on mapped OPC UA variables are published to MQTT topics, and
// messages on mapped MQTT topic filters are written to OPC UA variables. The
// mapping, broker and server settings come from a YAML configuration file;
// TAGBRIDGE_* environment variables override individual settings.
//
// Usage:
//
//	tagbridge [flags]
//
// Flags:
//
//	--config string     Configuration file path
//	--simulate          Use an in-memory server and broker instead of the network
//	--sim-interval      Simulated value update interval (default 2s)
//	--log-level string  Log level override: debug, info, warn, error
//
// Examples:
//
//	# Bridge a real broker and server
//	tagbridge --config /etc/tagbridge/bridge.yaml
//
//	# Try the routing without any infrastructure
//	tagbridge --simulate --log-level debug
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

// options holds the command-line flags.
type options struct {
	ConfigFile  string
	Simulate    bool
	SimInterval time.Duration
	LogLevel    string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("tagbridge", pflag.ContinueOnError)
	fs.StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file path")
	fs.BoolVar(&opts.Simulate, "simulate", false, "Use an in-memory server and broker instead of the network")
	fs.DurationVar(&opts.SimInterval, "sim-interval", 2*time.Second, "Simulated value update interval")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level override: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.ConfigFile == "" && !opts.Simulate {
		return options{}, fmt.Errorf("--config is required unless --simulate is set")
	}
	if opts.SimInterval <= 0 {
		return options{}, fmt.Errorf("--sim-interval must be positive")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, opts, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "tagbridge: %v\n", err)
		os.Exit(1)
	}
}
