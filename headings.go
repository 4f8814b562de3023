package nb2pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// headingSelector matches the heading levels included in the TOC.
// Deeper levels (h5, h6) are ignored.
const headingSelector = "h1, h2, h3, h4"

var (
	// nonSlugChars matches everything that is not a word character,
	// whitespace, or hyphen.
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	// slugSeparators matches runs of whitespace and hyphens.
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// slugify derives an anchor base from heading text: lowercase, strip
// non-word characters, collapse separator runs into single hyphens.
func slugify(text string) string {
	s := strings.ToLower(text)
	s = nonSlugChars.ReplaceAllString(s, "")
	return slugSeparators.ReplaceAllString(s, "-")
}

// cleanHeadingText strips the permalink glyphs nbconvert appends to
// headings (pilcrow, section mark) and surrounding whitespace.
func cleanHeadingText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "¶", "")
	s = strings.ReplaceAll(s, "§", "")
	return strings.TrimSpace(s)
}

// anchorRegistry tracks assigned anchor IDs so every claim is unique
// within one document.
type anchorRegistry struct {
	used   map[string]bool
	counts map[string]int
}

func newAnchorRegistry() *anchorRegistry {
	return &anchorRegistry{
		used:   make(map[string]bool),
		counts: make(map[string]int),
	}
}

// reserve marks an identifier already present in the markup as taken, so
// later slug collisions skip it.
func (r *anchorRegistry) reserve(id string) {
	r.used[id] = true
}

// claim returns a unique identifier derived from base: the base itself for
// the first use, then base-1, base-2, and so on until unused.
func (r *anchorRegistry) claim(base string) string {
	for n := r.counts[base]; ; n++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		if !r.used[id] {
			r.counts[base] = n + 1
			r.used[id] = true
			return id
		}
	}
}

// extractHeadings scans the document for h1-h4 elements, assigns an id
// attribute to each heading that lacks one, and returns the headings in
// document order. Headings whose text is empty after cleaning are skipped
// entirely. Existing ids are preserved verbatim; they are all reserved
// before any slug is claimed, so a generated anchor never collides with an
// id appearing anywhere in the document.
func extractHeadings(doc *goquery.Document) []Heading {
	reg := newAnchorRegistry()
	found := doc.Find(headingSelector)

	found.Each(func(_ int, sel *goquery.Selection) {
		if id, ok := sel.Attr("id"); ok && id != "" {
			reg.reserve(id)
		}
	})

	var headings []Heading
	found.Each(func(_ int, sel *goquery.Selection) {
		level := headingLevel(goquery.NodeName(sel))
		if level == 0 {
			return
		}

		text := cleanHeadingText(sel.Text())
		if text == "" {
			return
		}

		id, ok := sel.Attr("id")
		if !ok || id == "" {
			id = reg.claim(slugify(text))
			sel.SetAttr("id", id)
		}

		headings = append(headings, Heading{Level: level, Text: text, AnchorID: id})
	})

	return headings
}

// headingLevel parses "h1".."h6" into its numeric level, 0 if not a heading.
func headingLevel(nodeName string) int {
	if len(nodeName) != 2 || nodeName[0] != 'h' {
		return 0
	}
	n := int(nodeName[1] - '0')
	if n < 1 || n > 6 {
		return 0
	}
	return n
}
