package nb2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// pdfRenderer abstracts PDF capture from a local markup file to enable
// testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, timing RenderTiming) ([]byte, error)
	Close() error
}

// typesetPage is the slice of browser page behavior the typesetting wait
// needs, so the wait logic is testable without a real page.
type typesetPage interface {
	// WaitEngineReady blocks until the MathJax global is defined, bounded
	// by timeout.
	WaitEngineReady(timeout time.Duration) error
	// Typeset runs the engine's typeset-all entry point and waits for its
	// promise to resolve.
	Typeset() error
}

// Compile-time interface checks.
var (
	_ pdfRenderer = (*rodRenderer)(nil)
	_ typesetPage = (*rodTypesetPage)(nil)
)

// A4 page dimensions and margins in inches (Chrome's PrintToPDF unit).
// The margin is 1.5cm on all sides.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 0.59
)

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser *rod.Browser
	logger  *slog.Logger
	sleep   func(time.Duration)
}

// newRodRenderer creates a rodRenderer logging recoverable conditions to
// logger.
func newRodRenderer(logger *slog.Logger) *rodRenderer {
	return &rodRenderer{logger: logger, sleep: time.Sleep}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromFile opens a local HTML file in headless Chrome, waits for
// MathJax typesetting to settle, and captures an A4 PDF. Typesetting
// failures are recoverable: the PDF is still captured after a fallback
// delay, possibly with unrendered formulas.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, timing RenderTiming) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Bind all page operations to the caller's context for cancellation.
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	r.settleTypesetting(&rodTypesetPage{page: page}, timing)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// settleTypesetting waits for the typesetting engine and forces a full
// typeset pass. A readiness timeout or evaluation error is downgraded to a
// warning plus a fixed fallback delay: a best-effort PDF beats no PDF.
func (r *rodRenderer) settleTypesetting(page typesetPage, timing RenderTiming) {
	if err := page.WaitEngineReady(timing.ReadyTimeout); err != nil {
		r.logger.Warn("typesetting engine not ready, capturing after fallback delay",
			"timeout", timing.ReadyTimeout, "error", err)
		r.sleep(timing.FallbackDelay)
		return
	}

	r.sleep(timing.InitialGrace)

	if err := page.Typeset(); err != nil {
		r.logger.Warn("typeset pass failed, capturing after fallback delay", "error", err)
		r.sleep(timing.FallbackDelay)
		return
	}

	r.sleep(timing.SettleDelay)
}

// buildPDFOptions constructs the A4 capture settings: 1.5cm margins,
// backgrounds included, no header/footer furniture.
func buildPDFOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(a4WidthInches),
		PaperHeight:     floatPtr(a4HeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodTypesetPage adapts a rod page to the typesetPage interface.
type rodTypesetPage struct {
	page *rod.Page
}

func (p *rodTypesetPage) WaitEngineReady(timeout time.Duration) error {
	return p.page.Timeout(timeout).Wait(rod.Eval(`() => typeof MathJax !== "undefined"`))
}

func (p *rodTypesetPage) Typeset() error {
	_, err := p.page.Eval(`async () => {
		if (MathJax.typesetPromise) {
			await MathJax.typesetPromise()
		}
	}`)
	return err
}
