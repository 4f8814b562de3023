package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf <notebook.ipynb> [output.pdf] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Jupyter notebook to PDF with MathJax rendering, a title page,")
	fmt.Fprintln(w, "and a clickable table of contents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>     Output PDF path (default: source with .pdf)")
	fmt.Fprintln(w, "  -t, --title <text>      Title page title")
	fmt.Fprintln(w, "  -s, --subtitle <text>   Title page subtitle")
	fmt.Fprintln(w, "  -c, --color <hex>       Header color (default: #41395f)")
	fmt.Fprintln(w, "      --no-toc            Skip title page and table of contents")
	fmt.Fprintln(w, "      --config <name>     Config file name or path")
	fmt.Fprintln(w, "      --timeout <dur>     Typesetting readiness timeout (e.g. 30s)")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show renderer diagnostics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor     Check external dependencies (jupyter, Chrome)")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this message")
}
