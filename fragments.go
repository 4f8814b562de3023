package nb2pdf

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/alnah/go-nb2pdf/internal/assets"
)

// tocIndentPerLevel is the left indent in pixels applied per heading level
// below the first.
const tocIndentPerLevel = 25

// titleFragmentData feeds the title page template.
type titleFragmentData struct {
	Title    string
	Subtitle string
	Color    string
}

// tocFragmentData feeds the TOC container template. Entries is prebuilt,
// escaped markup.
type tocFragmentData struct {
	Color   string
	Entries template.HTML
}

// fragmentBuilder renders the title page and TOC fragments from the
// embedded templates.
type fragmentBuilder struct {
	title *template.Template
	toc   *template.Template
}

// newFragmentBuilder loads and parses the embedded fragment templates.
// Panics if a template cannot be loaded or parsed (programmer error).
func newFragmentBuilder() *fragmentBuilder {
	return &fragmentBuilder{
		title: mustLoadTemplate("title"),
		toc:   mustLoadTemplate("toc"),
	}
}

func mustLoadTemplate(name string) *template.Template {
	content, err := assets.LoadTemplate(name)
	if err != nil {
		panic("failed to load " + name + " template: " + err.Error())
	}
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		panic("failed to parse " + name + " template: " + err.Error())
	}
	return tmpl
}

// TitlePage renders the title page fragment: title and subtitle centered,
// with a forced page break after the block. Subtitle may be empty.
func (b *fragmentBuilder) TitlePage(title, subtitle, color string) (string, error) {
	var buf bytes.Buffer
	data := titleFragmentData{Title: title, Subtitle: subtitle, Color: color}
	if err := b.title.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFragmentRender, err)
	}
	return buf.String(), nil
}

// TOC renders the table of contents fragment: one link per heading,
// indented by level, with a forced page break after the block. Zero
// headings produce a valid fragment with zero links.
func (b *fragmentBuilder) TOC(headings []Heading, color string) (string, error) {
	var buf bytes.Buffer
	data := tocFragmentData{Color: color, Entries: template.HTML(buildTOCEntries(headings, color))}
	if err := b.toc.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFragmentRender, err)
	}
	return buf.String(), nil
}

// buildTOCEntries produces the per-heading link markup. Visual weight
// decreases as the level increases.
func buildTOCEntries(headings []Heading, color string) string {
	var buf strings.Builder
	for _, h := range headings {
		fontSize, fontWeight := tocEntryStyle(h.Level)
		indent := (h.Level - 1) * tocIndentPerLevel

		fmt.Fprintf(&buf,
			`<div style="margin-left: %dpx; margin-bottom: 8px;">`+
				`<a href="#%s" style="text-decoration: none; color: %s; font-size: %s; font-weight: %s;">%s</a>`+
				`</div>`,
			indent,
			html.EscapeString(h.AnchorID),
			color,
			fontSize,
			fontWeight,
			html.EscapeString(h.Text),
		)
	}
	return buf.String()
}

// tocEntryStyle maps a heading level to its TOC font size and weight.
func tocEntryStyle(level int) (fontSize, fontWeight string) {
	switch level {
	case 1:
		return "1.1em", "bold"
	case 2:
		return "1.05em", "600"
	case 3:
		return "1em", "normal"
	default:
		return "0.95em", "normal"
	}
}
