package nb2pdf

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// Defaults applied by Request.withDefaults.
const (
	DefaultTitle       = "Document Title"
	DefaultHeaderColor = "#41395f"
)

// hexColorPattern matches 3- or 6-digit hex colors with a leading #.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Request contains conversion parameters for one notebook.
// It is immutable for the duration of a run.
type Request struct {
	Source      string // notebook path (required)
	Output      string // PDF path (default: Source with .pdf extension)
	Title       string // title page title (default: DefaultTitle)
	Subtitle    string // title page subtitle (optional)
	HeaderColor string // hex color for headings (default: DefaultHeaderColor)
	Plain       bool   // skip title page and table of contents
}

// Validate checks that required fields are present and valid.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return ErrEmptySource
	}
	if r.HeaderColor != "" && !hexColorPattern.MatchString(r.HeaderColor) {
		return fmt.Errorf("%w: %q", ErrInvalidHeaderColor, r.HeaderColor)
	}
	return nil
}

// withDefaults returns a copy with empty optional fields filled in.
func (r Request) withDefaults() Request {
	if r.Output == "" {
		r.Output = fileutil.ReplaceExt(r.Source, ".pdf")
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.HeaderColor == "" {
		r.HeaderColor = DefaultHeaderColor
	}
	return r
}

// Result describes a completed conversion.
type Result struct {
	OutputPath string // final PDF path
	Size       int64  // PDF size in bytes
	Headings   int    // headings found in the converted markup
}

// RenderTiming configures the typesetting wait inside the browser.
// Zero fields fall back to the defaults.
type RenderTiming struct {
	ReadyTimeout  time.Duration // bound on polling for the MathJax global
	InitialGrace  time.Duration // pause before forcing the typeset pass
	SettleDelay   time.Duration // pause after typesetting for layout reflow
	FallbackDelay time.Duration // pause when the engine never became ready
}

// DefaultRenderTiming returns the standard typesetting delays.
func DefaultRenderTiming() RenderTiming {
	return RenderTiming{
		ReadyTimeout:  15 * time.Second,
		InitialGrace:  2 * time.Second,
		SettleDelay:   3 * time.Second,
		FallbackDelay: 5 * time.Second,
	}
}

// withDefaults fills zero fields with the default delays.
func (t RenderTiming) withDefaults() RenderTiming {
	d := DefaultRenderTiming()
	if t.ReadyTimeout <= 0 {
		t.ReadyTimeout = d.ReadyTimeout
	}
	if t.InitialGrace <= 0 {
		t.InitialGrace = d.InitialGrace
	}
	if t.SettleDelay <= 0 {
		t.SettleDelay = d.SettleDelay
	}
	if t.FallbackDelay <= 0 {
		t.FallbackDelay = d.FallbackDelay
	}
	return t
}

// Heading is a heading extracted from the converted markup, in document
// order. Read-only after extraction.
type Heading struct {
	Level    int    // 1-4
	Text     string // cleaned heading text
	AnchorID string // unique per-document anchor identifier
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timing   RenderTiming
	logger   *slog.Logger
	progress func(msg string)
}

// WithRenderTiming overrides the typesetting delays. Zero fields keep
// their defaults.
func WithRenderTiming(t RenderTiming) Option {
	return func(c *Converter) {
		c.cfg.timing = t.withDefaults()
	}
}

// WithReadyTimeout sets the bound on waiting for the MathJax global.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithReadyTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nb2pdf: WithReadyTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timing.ReadyTimeout = d
	}
}

// WithLogger sets the logger used for recoverable rendering warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithProgress sets a callback invoked with a human-readable line at each
// pipeline stage.
func WithProgress(fn func(msg string)) Option {
	return func(c *Converter) {
		c.cfg.progress = fn
	}
}
