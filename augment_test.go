package nb2pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

const testPage = `<html><head><title>nb</title></head><body><p id="content">x = 1</p></body></html>`

func TestInjectHead(t *testing.T) {
	t.Run("adds engine config, CDN script, and print styles", func(t *testing.T) {
		doc := parseHTML(t, testPage)
		injectHead(doc, "#41395f")

		head, err := doc.Find("head").Html()
		if err != nil {
			t.Fatalf("serializing head: %v", err)
		}

		for _, want := range []string{
			"MathJax = {",
			"inlineMath",
			mathJaxCDN,
			"scroll-behavior: smooth",
			"#table-of-contents { page-break-after: always; }",
			".anchor-link { display: none !important; }",
			"color: #41395f !important",
		} {
			if !strings.Contains(head, want) {
				t.Errorf("head missing %q", want)
			}
		}
	})

	t.Run("config precedes engine script", func(t *testing.T) {
		doc := parseHTML(t, testPage)
		injectHead(doc, "#333")

		head, _ := doc.Find("head").Html()
		cfg := strings.Index(head, "MathJax = {")
		engine := strings.Index(head, mathJaxCDN)
		if cfg < 0 || engine < 0 || cfg > engine {
			t.Errorf("config at %d, engine at %d; config must come first", cfg, engine)
		}
	})

	t.Run("document without head is left alone", func(t *testing.T) {
		doc := parseHTML(t, "")
		injectHead(doc, "#333") // must not panic
	})
}

func TestInsertFragments(t *testing.T) {
	title := `<div id="title-page">T</div>`
	toc := `<div id="table-of-contents">C</div>`

	t.Run("title first, then TOC, then content", func(t *testing.T) {
		doc := parseHTML(t, testPage)
		insertFragments(doc, title, toc)

		body, err := doc.Find("body").Html()
		if err != nil {
			t.Fatalf("serializing body: %v", err)
		}

		ti := strings.Index(body, `id="title-page"`)
		ci := strings.Index(body, `id="table-of-contents"`)
		pi := strings.Index(body, `id="content"`)
		if ti < 0 || ci < 0 || pi < 0 {
			t.Fatalf("missing fragment: title=%d toc=%d content=%d", ti, ci, pi)
		}
		if !(ti < ci && ci < pi) {
			t.Errorf("order title=%d toc=%d content=%d, want title < toc < content", ti, ci, pi)
		}
	})

	t.Run("empty fragments are skipped", func(t *testing.T) {
		doc := parseHTML(t, testPage)
		insertFragments(doc, "", "")

		body, _ := doc.Find("body").Html()
		if strings.Contains(body, "title-page") || strings.Contains(body, "table-of-contents") {
			t.Error("empty fragments were still inserted")
		}
	})
}

func TestAugmentMarkup(t *testing.T) {
	t.Run("writes finalized document beside the source", func(t *testing.T) {
		dir := t.TempDir()
		htmlPath := filepath.Join(dir, "notebook.html")
		if err := os.WriteFile(htmlPath, []byte(testPage), 0o644); err != nil {
			t.Fatal(err)
		}

		doc := parseHTML(t, testPage)
		title := `<div id="title-page">T</div>`
		toc := `<div id="table-of-contents">C</div>`

		printPath, err := augmentMarkup(htmlPath, doc, title, toc, "#41395f")
		if err != nil {
			t.Fatalf("augmentMarkup() error: %v", err)
		}

		want := filepath.Join(dir, "notebook_print.html")
		if printPath != want {
			t.Errorf("printPath = %q, want %q", printPath, want)
		}
		if !fileutil.FileExists(printPath) {
			t.Fatal("augmented file was not written")
		}

		out, err := os.ReadFile(printPath)
		if err != nil {
			t.Fatal(err)
		}
		content := string(out)
		for _, part := range []string{mathJaxCDN, "title-page", "table-of-contents", `id="content"`} {
			if !strings.Contains(content, part) {
				t.Errorf("augmented markup missing %q", part)
			}
		}
	})

	t.Run("plain mode omits fragments but keeps typesetting", func(t *testing.T) {
		dir := t.TempDir()
		htmlPath := filepath.Join(dir, "notebook.html")
		doc := parseHTML(t, testPage)

		printPath, err := augmentMarkup(htmlPath, doc, "", "", "#41395f")
		if err != nil {
			t.Fatalf("augmentMarkup() error: %v", err)
		}

		out, _ := os.ReadFile(printPath)
		content := string(out)
		if strings.Contains(content, "title-page") {
			t.Error("plain output contains title page")
		}
		if !strings.Contains(content, mathJaxCDN) {
			t.Error("plain output missing typesetting engine")
		}
	})
}
