// Command tagbridge-log views and analyzes tagbridge routing trace files.
//
// Trace files are written by tagbridge when trace.file is set in its
// configuration.
//
// Usage:
//
//	tagbridge-log <command> [flags] <file.tlog>
//
// Commands:
//
//	view     View trace events in human-readable format
//	export   Export trace events to JSONL or CSV
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View everything that was dropped
//	tagbridge-log view --category dropped bridge.tlog
//
//	# View inbound events for one device
//	tagbridge-log view --direction in --topic 'device1/#' bridge.tlog
//
//	# Export to CSV
//	tagbridge-log export --format csv -o bridge.csv bridge.tlog
//
//	# Show statistics
//	tagbridge-log stats bridge.tlog
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/tagbridge/tagbridge-go/cmd/tagbridge-log/commands"
)

const usage = `tagbridge-log - Tag Bridge Trace Analyzer

Usage:
  tagbridge-log <command> [flags] <file.tlog>

Commands:
  view     View trace events in human-readable format
  export   Export trace events to JSONL or CSV
  stats    Show statistics about the trace file

Use "tagbridge-log <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set carrying the shared filter flags.
func newFlagSet(name, summary string) (*pflag.FlagSet, *commands.FilterFlags) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "tagbridge-log %s - %s\n\nUsage:\n  tagbridge-log %s [flags] <file.tlog>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}

	var f commands.FilterFlags
	fs.StringVar(&f.BridgeID, "bridge-id", "", "Filter by bridge ID")
	fs.StringVar(&f.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&f.Category, "category", "", "Filter by category (routed, dropped, error, state)")
	fs.StringVar(&f.Node, "node", "", "Filter by node ID")
	fs.StringVar(&f.Topic, "topic", "", "Filter by topic pattern (+ and # allowed)")
	fs.StringVar(&f.Since, "since", "", "Keep events at or after this time (RFC3339)")
	fs.StringVar(&f.Until, "until", "", "Keep events before this time (RFC3339)")
	return fs, &f
}

// parse parses args and returns the trace path and filter, exiting on error.
func parse(fs *pflag.FlagSet, flags *commands.FilterFlags, args []string) (string, commands.FilterFlags) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0), *flags
}

func runView(args []string) {
	fs, flags := newFlagSet("view", "View trace events in human-readable format")
	path, ff := parse(fs, flags, args)

	filter, err := ff.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs, flags := newFlagSet("export", "Export trace events to JSONL or CSV")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")
	path, ff := parse(fs, flags, args)

	filter, err := ff.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunExport(path, filter, *format, *output); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs, flags := newFlagSet("stats", "Show statistics about the trace file")
	path, ff := parse(fs, flags, args)

	filter, err := ff.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
