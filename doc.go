// Package nb2pdf converts Jupyter notebooks to print-ready PDFs using
// headless Chrome, with MathJax formula rendering and an optional generated
// title page and clickable table of contents.
//
// # Quick Start
//
// Create a converter, convert a notebook, and close when done:
//
//	conv := nb2pdf.NewConverter()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, nb2pdf.Request{
//	    Source: "analysis.ipynb",
//	    Title:  "Quarterly Analysis",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Notebook to HTML via the external jupyter nbconvert tool
//  2. Heading extraction and anchor ID assignment (goquery)
//  3. HTML augmentation (title page, TOC, MathJax config, print styles)
//  4. PDF capture via headless Chrome (go-rod), after waiting for MathJax
//     to finish typesetting
//
// Intermediate HTML files are written beside the source notebook and removed
// on every exit path, success or failure.
//
// # Typesetting Wait
//
// Formula rendering happens inside the browser. The renderer polls for the
// MathJax global with a bounded timeout, forces a full typeset pass, and
// pauses for layout reflow. If MathJax never becomes ready the renderer logs
// a warning and captures the PDF after a fixed fallback delay, so a
// best-effort PDF is always produced. All delays are configurable via
// RenderTiming.
//
// # Concurrency
//
// One conversion is one logical task: one notebook in, one PDF out.
// Temporary file names derive from the source stem, so concurrent
// conversions of the same notebook path collide; callers must serialize
// those or convert copies.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package nb2pdf
