package nb2pdf

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// augmentedSuffix distinguishes the finalized markup from the raw
// converter output, so both can be cleaned up independently.
const augmentedSuffix = "_print"

// mathJaxCDN is the public CDN reference for MathJax v3. The engine is
// never bundled; the browser loads it while rendering.
const mathJaxCDN = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

// mathJaxConfig configures TeX delimiters and processing before the engine
// script loads. Delimiters are double-escaped so the serialized page carries
// \( and \) into the browser.
const mathJaxConfig = `
<script>
MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']],
    processEscapes: true,
    processEnvironments: true
  },
  options: {
    skipHtmlTags: ['script', 'noscript', 'style', 'textarea', 'pre']
  }
};
</script>
<script id="MathJax-script" async src="` + mathJaxCDN + `"></script>
`

// printStyles returns the print styling block: smooth scrolling, a forced
// page break after the TOC when printing, hidden permalink decorations, and
// all heading levels recolored. The color is validated as a hex literal
// before reaching here.
func printStyles(color string) string {
	return fmt.Sprintf(`
<style>
    html { scroll-behavior: smooth; }
    @media print { #table-of-contents { page-break-after: always; } }
    .anchor-link { display: none !important; }
    h1, h2, h3, h4 { color: %s !important; }
</style>
`, color)
}

// insertFragments places the generated fragments as the first children of
// body, title page first, so the visual order is title, TOC, original
// content. Empty fragments are skipped.
func insertFragments(doc *goquery.Document, titleHTML, tocHTML string) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return
	}
	if tocHTML != "" {
		body.PrependHtml(tocHTML)
	}
	if titleHTML != "" {
		body.PrependHtml(titleHTML)
	}
}

// injectHead appends the MathJax configuration and print styles at the end
// of the document head.
func injectHead(doc *goquery.Document, color string) {
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	head.AppendHtml(mathJaxConfig)
	head.AppendHtml(printStyles(color))
}

// augmentMarkup runs all augmentation steps on the parsed converter output
// and writes the finalized document beside it, returning the new path.
func augmentMarkup(htmlPath string, doc *goquery.Document, titleHTML, tocHTML, color string) (string, error) {
	insertFragments(doc, titleHTML, tocHTML)
	injectHead(doc, color)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteMarkup, err)
	}

	printPath := fileutil.WithSuffix(htmlPath, augmentedSuffix)
	if err := fileutil.WriteFileAtomic(printPath, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteMarkup, err)
	}
	return printPath, nil
}
