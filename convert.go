package nb2pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// stage identifies the orchestrator's position in the pipeline. Failures
// are wrapped with the stage they occurred in.
type stage int

const (
	stageIdle stage = iota
	stageConverting
	stageExtracting
	stageAugmenting
	stageRendering
	stageCapturing
	stageCleaning
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageIdle:
		return "idle"
	case stageConverting:
		return "converting"
	case stageExtracting:
		return "extracting"
	case stageAugmenting:
		return "augmenting"
	case stageRendering:
		return "rendering"
	case stageCapturing:
		return "capturing"
	case stageCleaning:
		return "cleaning"
	case stageDone:
		return "done"
	}
	return "unknown"
}

// cleanupSet tracks temporary markup artifacts for best-effort removal on
// every exit path.
type cleanupSet struct {
	paths []string
}

func (c *cleanupSet) add(path string) {
	c.paths = append(c.paths, path)
}

// run removes tracked files; a missing file is not an error at this stage.
func (c *cleanupSet) run() {
	for _, p := range c.paths {
		fileutil.BestEffortRemove(p)
	}
}

// Converter orchestrates the notebook-to-PDF pipeline.
// Create with NewConverter, use Convert for conversion, and Close when done.
type Converter struct {
	cfg       converterConfig
	notebook  notebookConverter
	fragments *fragmentBuilder
	renderer  pdfRenderer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithRenderTiming, WithLogger).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			timing:   DefaultRenderTiming(),
			logger:   slog.Default(),
			progress: func(string) {},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.notebook == nil {
		c.notebook = NewNotebookConverter()
	}
	if c.fragments == nil {
		c.fragments = newFragmentBuilder()
	}

	// Create renderer if not injected (e.g., by tests)
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.logger)
	}

	return c
}

// Convert runs the full pipeline: invoke the external converter, extract
// headings, augment the markup, render and capture the PDF, and clean up
// temporary artifacts. The context is used for cancellation.
//
// Failures before rendering are fatal. Typesetting readiness problems
// inside rendering are recoverable and only logged; a best-effort PDF is
// still produced. Temporary files are removed on success and failure alike.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	// The source is checked before the external converter runs, so a bad
	// path creates zero temporary files.
	if !fileutil.FileExists(req.Source) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source)
	}

	cleanup := &cleanupSet{}
	defer cleanup.run()

	// Converting: external notebook-to-markup converter.
	c.cfg.progress("Converting notebook to HTML...")
	htmlPath, err := c.notebook.ToHTML(ctx, req.Source)
	if err != nil {
		return nil, stageErr(stageConverting, err)
	}
	cleanup.add(htmlPath)

	// Extracting: parse converter output, collect headings, assign anchors.
	raw, err := os.ReadFile(htmlPath) // #nosec G304 -- path derived from user-provided source
	if err != nil {
		return nil, stageErr(stageExtracting, fmt.Errorf("%w: %v", ErrReadMarkup, err))
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, stageErr(stageExtracting, fmt.Errorf("%w: %v", ErrReadMarkup, err))
	}
	headings := extractHeadings(doc)
	c.cfg.progress(fmt.Sprintf("Found %d headings", len(headings)))

	// Augmenting: generated fragments, MathJax config, print styles.
	var titleHTML, tocHTML string
	if !req.Plain {
		titleHTML, err = c.fragments.TitlePage(req.Title, req.Subtitle, req.HeaderColor)
		if err != nil {
			return nil, stageErr(stageAugmenting, err)
		}
		tocHTML, err = c.fragments.TOC(headings, req.HeaderColor)
		if err != nil {
			return nil, stageErr(stageAugmenting, err)
		}
	}
	printPath, err := augmentMarkup(htmlPath, doc, titleHTML, tocHTML, req.HeaderColor)
	if err != nil {
		return nil, stageErr(stageAugmenting, err)
	}
	cleanup.add(printPath)

	// Rendering and capturing: headless browser loads the finalized markup
	// by local-file reference and paginates it.
	c.cfg.progress("Rendering MathJax and generating PDF...")
	absPath, err := filepath.Abs(printPath)
	if err != nil {
		return nil, stageErr(stageRendering, err)
	}
	pdfBytes, err := c.renderer.RenderFromFile(ctx, absPath, c.cfg.timing)
	if err != nil {
		return nil, stageErr(stageCapturing, err)
	}

	if err := fileutil.WriteFileAtomic(req.Output, pdfBytes, 0o644); err != nil {
		return nil, stageErr(stageCapturing, fmt.Errorf("%w: %v", ErrWritePDF, err))
	}

	// Cleaning runs via the deferred cleanupSet on this and every earlier
	// return path.
	return &Result{
		OutputPath: req.Output,
		Size:       int64(len(pdfBytes)),
		Headings:   len(headings),
	}, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// stageErr wraps an error with the pipeline stage it occurred in.
func stageErr(s stage, err error) error {
	return fmt.Errorf("%s: %w", s, err)
}
