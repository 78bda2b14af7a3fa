// Command inkwell is a minimal host over the buffer engine: it opens a
// file, applies one edit from the command line, and saves in place.
// Grounded on the teacher's cmd/keystorm/main.go flag-parsing and
// exit-code structure, trimmed down to the operations this package's
// engine actually exposes (there is no terminal renderer here, just the
// buffer core).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inkwell-editor/inkwell/internal/buffer"
	"github.com/inkwell-editor/inkwell/internal/engineconfig"
	"github.com/inkwell-editor/inkwell/internal/logging"
	"github.com/inkwell-editor/inkwell/internal/text/change"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	insertAt   int64
	insertText string
	dump       bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level := logging.ParseLevel(opts.logLevel)
	logger := logging.New(logging.Config{Level: level, Output: os.Stderr, Prefix: "inkwell"})

	cfgOpts := engineconfig.Default()
	if opts.configPath != "" {
		var err error
		cfgOpts, err = engineconfig.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			return 1
		}
	}

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Error: a file argument is required")
		return 1
	}

	f, err := os.OpenFile(opts.file, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening %s: %v\n", opts.file, err)
		return 1
	}
	defer f.Close()

	eng, err := buffer.NewFromFile(f, buffer.WithOptions(cfgOpts), buffer.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", opts.file, err)
		return 1
	}
	defer eng.Close()

	if opts.insertText != "" {
		pos := uint64(opts.insertAt)
		if pos > eng.Len() {
			pos = eng.Len()
		}
		if _, err := eng.Apply([]change.Change{{Start: pos, End: pos, Replacement: []byte(opts.insertText)}}, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: applying edit: %v\n", err)
			return 1
		}
		if err := eng.SaveInPlace(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: saving %s: %v\n", opts.file, err)
			return 1
		}
	}

	if opts.dump {
		text, err := eng.Text()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading buffer: %v\n", err)
			return 1
		}
		os.Stdout.Write(text)
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to an inkwell.toml config file")
	flag.StringVar(&opts.configPath, "c", "", "Path to an inkwell.toml config file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Int64Var(&opts.insertAt, "at", 0, "Byte offset to insert -text at")
	flag.StringVar(&opts.insertText, "text", "", "Text to insert at -at, then save in place")
	flag.BoolVar(&opts.dump, "dump", false, "Print the buffer's content to stdout after any edit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inkwell - piece-tree text buffer engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkwell -dump file.txt                 Print a file's buffer content\n")
		fmt.Fprintf(os.Stderr, "  inkwell -at 0 -text 'hi ' file.txt     Insert text and save in place\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) > 0 {
		opts.file = args[0]
	}

	return opts
}
