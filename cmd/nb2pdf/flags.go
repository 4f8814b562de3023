package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the convert invocation.
type cliFlags struct {
	output   string
	title    string
	subtitle string
	color    string
	noTOC    bool
	config   string
	timeout  string
	quiet    bool
	verbose  bool
}

// parseFlags parses convert flags and returns the positional arguments.
func parseFlags(args []string, errOut io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("nb2pdf", flag.ContinueOnError)
	fs.SetOutput(errOut)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: source with .pdf)")
	fs.StringVarP(&f.title, "title", "t", "", "title page title")
	fs.StringVarP(&f.subtitle, "subtitle", "s", "", "title page subtitle")
	fs.StringVarP(&f.color, "color", "c", "", "header color (hex, default #41395f)")
	fs.BoolVar(&f.noTOC, "no-toc", false, "skip title page and table of contents")
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.StringVar(&f.timeout, "timeout", "", "typesetting readiness timeout (e.g. 30s)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show renderer diagnostics")

	fs.Usage = func() { printUsage(errOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
