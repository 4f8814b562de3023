package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input notebook specified")
	ErrInvalidExtension = errors.New("file must have .ipynb extension")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, req nb2pdf.Request) (*nb2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*nb2pdf.Converter)(nil)

// converterFactory builds a Converter from resolved options. Injected so
// tests can substitute a fake without launching a browser.
type converterFactory func(opts ...nb2pdf.Option) Converter

func defaultFactory(opts ...nb2pdf.Option) Converter {
	return nb2pdf.NewConverter(opts...)
}

// run dispatches the top-level command and maps errors to exit codes.
func run(ctx context.Context, args []string, deps *Dependencies, factory converterFactory) int {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "version", "--version":
		fmt.Fprintf(deps.Stdout, "nb2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		printUsage(deps.Stdout)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(args[1:], deps)
	}

	if err := runConvert(ctx, args, deps, factory); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(deps.Stderr, "Error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert parses flags, resolves configuration, and drives one
// conversion, printing progress lines at each major stage.
func runConvert(ctx context.Context, args []string, deps *Dependencies, factory converterFactory) error {
	flags, positional, err := parseFlags(args, deps.Stderr)
	if err != nil {
		return err
	}

	if len(positional) < 1 {
		return ErrNoInput
	}
	notebook := positional[0]
	if err := validateNotebookExtension(notebook); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if flags.config != "" {
		cfg, err = LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	req := buildRequest(notebook, positional, flags, cfg)

	timing, err := cfg.Render.Timing()
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		timing.ReadyTimeout = d
	}

	opts := []nb2pdf.Option{
		nb2pdf.WithRenderTiming(timing),
		nb2pdf.WithLogger(newLogger(deps.Stderr, flags.quiet, flags.verbose)),
	}
	if !flags.quiet {
		opts = append(opts, nb2pdf.WithProgress(func(msg string) {
			fmt.Fprintln(deps.Stdout, msg)
		}))
	}

	conv := factory(opts...)
	defer conv.Close()

	if !flags.quiet {
		fmt.Fprintf(deps.Stdout, "Converting %s to PDF...\n", notebook)
	}

	result, err := conv.Convert(ctx, req)
	if err != nil {
		return err
	}

	if !flags.quiet {
		printSummary(deps.Stdout, result)
	}
	return nil
}

// buildRequest merges positional arguments, flags, and config defaults.
// Flags win over config; the library fills remaining defaults.
func buildRequest(notebook string, positional []string, flags *cliFlags, cfg *Config) nb2pdf.Request {
	req := nb2pdf.Request{
		Source:      notebook,
		Title:       firstNonEmpty(flags.title, cfg.TitlePage.Title),
		Subtitle:    firstNonEmpty(flags.subtitle, cfg.TitlePage.Subtitle),
		HeaderColor: firstNonEmpty(flags.color, cfg.TitlePage.Color),
		Plain:       flags.noTOC || cfg.TOC.Disabled,
	}
	if len(positional) > 1 {
		req.Output = positional[1]
	}
	if flags.output != "" {
		req.Output = flags.output
	}
	return req
}

// printSummary reports the output path, size in kilobytes, and page count.
// Page counting is informational; its failure does not fail the run.
func printSummary(w io.Writer, result *nb2pdf.Result) {
	fmt.Fprintf(w, "\nPDF created: %s\n", result.OutputPath)
	fmt.Fprintf(w, "  Size: %.1f KB\n", float64(result.Size)/1024)
	if pages, err := nb2pdf.PageCount(result.OutputPath); err == nil {
		fmt.Fprintf(w, "  Pages: %d\n", pages)
	}
}

// validateNotebookExtension checks that the file has a .ipynb extension.
func validateNotebookExtension(path string) error {
	if ext := filepath.Ext(path); ext != ".ipynb" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// newLogger builds the CLI logger: warnings by default, diagnostics with
// --verbose, errors only with --quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
