// Command devmodel-log is a tool for viewing and analyzing driver model
// trace files.
//
// Trace files are written by devmodel-boot when run with --event-log.
//
// Usage:
//
//	devmodel-log <command> [flags] <file.dmlog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL, CSV or YAML
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	devmodel-log view boot.dmlog
//
//	# View failed probes and initcalls only
//	devmodel-log view --failures boot.dmlog
//
//	# View probe events on the platform bus
//	devmodel-log view --bus platform --category probe boot.dmlog
//
//	# Export to CSV
//	devmodel-log export --format csv -o boot.csv boot.dmlog
//
//	# Keep one boot session
//	devmodel-log filter --boot-id 0f1e2d3c-... -o one.dmlog boot.dmlog
//
//	# Show statistics
//	devmodel-log stats boot.dmlog
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/devmodel/devmodel-go/cmd/devmodel-log/commands"
)

const usage = `devmodel-log - Driver Model Trace Analyzer

Usage:
  devmodel-log <command> [flags] <file.dmlog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL, CSV or YAML
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "devmodel-log <command> --help" for more information about a command.
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
	case "filter":
		runFilter(args)
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

// filterFlags registers the shared selection flags on fs.
func filterFlags(fs *pflag.FlagSet) *commands.FilterOptions {
	var opts commands.FilterOptions
	fs.StringVar(&opts.BootID, "boot-id", "", "Filter by boot session ID")
	fs.StringVar(&opts.Bus, "bus", "", "Filter by bus name")
	fs.StringVar(&opts.Device, "device", "", "Filter by device name")
	fs.StringVar(&opts.Driver, "driver", "", "Filter by driver name")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (registration, probe, remove, initcall, irq, boot, error)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.BoolVar(&opts.FailuresOnly, "failures", false, "Only failed probes, negative initcalls and errors")
	return &opts
}

func newFlagSet(name, summary, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "devmodel-log %s - %s\n\nUsage:\n  devmodel-log %s\n\nFlags:\n", name, summary, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// pathArg returns the single positional argument or exits.
func pathArg(fs *pflag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace file in human-readable format", "view [flags] <file.dmlog>")
	opts := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := pathArg(fs)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace file to JSONL, CSV or YAML", "export [flags] <file.dmlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv, yaml)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := pathArg(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace file and write to new file", "filter [flags] -o <out.dmlog> <file.dmlog>")
	output := fs.StringP("output", "o", "", "Output file (required)")
	opts := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := pathArg(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, *output, *opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace file", "stats <file.dmlog>")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := pathArg(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
