package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// fakeService records the request it receives and returns a canned result.
type fakeService struct {
	req    nb2pdf.Request
	result *nb2pdf.Result
	err    error
	closed bool
}

func (f *fakeService) Convert(_ context.Context, req nb2pdf.Request) (*nb2pdf.Result, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &nb2pdf.Result{OutputPath: "out.pdf", Size: 2048, Headings: 3}, nil
}

func (f *fakeService) Close() error {
	f.closed = true
	return nil
}

// testEnv bundles the injected writers, fake service, and factory for one
// run invocation.
type testEnv struct {
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	deps    *Dependencies
	service *fakeService
	factory converterFactory
}

func newTestEnv() *testEnv {
	env := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		service: &fakeService{},
	}
	env.deps = &Dependencies{Stdout: env.stdout, Stderr: env.stderr}
	env.factory = func(_ ...nb2pdf.Option) Converter { return env.service }
	return env
}

func TestRun(t *testing.T) {
	t.Run("no arguments prints usage", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), nil, env.deps, env.factory)
		if code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(env.stderr.String(), "Usage:") {
			t.Error("usage not printed to stderr")
		}
	})

	t.Run("version command", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"version"}, env.deps, env.factory)
		if code != ExitSuccess {
			t.Errorf("exit = %d, want 0", code)
		}
		if !strings.Contains(env.stdout.String(), "nb2pdf") {
			t.Errorf("version output = %q", env.stdout.String())
		}
	})

	t.Run("help command", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"help"}, env.deps, env.factory)
		if code != ExitSuccess {
			t.Errorf("exit = %d, want 0", code)
		}
		if !strings.Contains(env.stdout.String(), "Usage:") {
			t.Error("usage not printed to stdout")
		}
	})

	t.Run("help flag exits clean", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"--help"}, env.deps, env.factory)
		if code != ExitSuccess {
			t.Errorf("exit = %d, want 0", code)
		}
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"notes.txt"}, env.deps, env.factory)
		if code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(env.stderr.String(), "Error:") {
			t.Error("error not printed to stderr")
		}
	})

	t.Run("flags without input rejected", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"-q"}, env.deps, env.factory)
		if code != ExitIO {
			t.Errorf("exit = %d, want %d", code, ExitIO)
		}
	})

	t.Run("successful conversion prints summary", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"analysis.ipynb"}, env.deps, env.factory)
		if code != ExitSuccess {
			t.Fatalf("exit = %d, stderr = %q", code, env.stderr.String())
		}

		out := env.stdout.String()
		for _, want := range []string{"Converting analysis.ipynb", "PDF created: out.pdf", "Size: 2.0 KB"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q in %q", want, out)
			}
		}
		if !env.service.closed {
			t.Error("converter not closed")
		}
	})

	t.Run("quiet suppresses stdout", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"analysis.ipynb", "-q"}, env.deps, env.factory)
		if code != ExitSuccess {
			t.Fatalf("exit = %d", code)
		}
		if env.stdout.Len() != 0 {
			t.Errorf("stdout not empty in quiet mode: %q", env.stdout.String())
		}
	})

	t.Run("conversion error maps to exit code", func(t *testing.T) {
		env := newTestEnv()
		env.service.err = fmt.Errorf("capturing: %w", nb2pdf.ErrPDFGeneration)

		code := run(context.Background(), []string{"analysis.ipynb"}, env.deps, env.factory)
		if code != ExitBrowser {
			t.Errorf("exit = %d, want %d", code, ExitBrowser)
		}
		if !strings.Contains(env.stderr.String(), "Error:") {
			t.Error("error not printed to stderr")
		}
	})

	t.Run("invalid timeout rejected", func(t *testing.T) {
		env := newTestEnv()

		code := run(context.Background(), []string{"analysis.ipynb", "--timeout", "soon"}, env.deps, env.factory)
		if code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})
}

func TestBuildRequest(t *testing.T) {
	t.Run("flags win over config", func(t *testing.T) {
		flags := &cliFlags{title: "Flag Title", color: "#abc"}
		cfg := &Config{TitlePage: TitlePageConfig{Title: "Config Title", Subtitle: "Config Sub", Color: "#def"}}

		req := buildRequest("nb.ipynb", []string{"nb.ipynb"}, flags, cfg)

		if req.Title != "Flag Title" {
			t.Errorf("Title = %q, want flag value", req.Title)
		}
		if req.Subtitle != "Config Sub" {
			t.Errorf("Subtitle = %q, want config fallback", req.Subtitle)
		}
		if req.HeaderColor != "#abc" {
			t.Errorf("HeaderColor = %q, want flag value", req.HeaderColor)
		}
	})

	t.Run("output flag wins over positional", func(t *testing.T) {
		flags := &cliFlags{output: "flag.pdf"}

		req := buildRequest("nb.ipynb", []string{"nb.ipynb", "positional.pdf"}, flags, DefaultConfig())
		if req.Output != "flag.pdf" {
			t.Errorf("Output = %q, want flag.pdf", req.Output)
		}
	})

	t.Run("positional output used when no flag", func(t *testing.T) {
		req := buildRequest("nb.ipynb", []string{"nb.ipynb", "positional.pdf"}, &cliFlags{}, DefaultConfig())
		if req.Output != "positional.pdf" {
			t.Errorf("Output = %q, want positional.pdf", req.Output)
		}
	})

	t.Run("plain mode from flag or config", func(t *testing.T) {
		if req := buildRequest("nb.ipynb", nil, &cliFlags{noTOC: true}, DefaultConfig()); !req.Plain {
			t.Error("noTOC flag did not set Plain")
		}
		cfg := &Config{TOC: TOCConfig{Disabled: true}}
		if req := buildRequest("nb.ipynb", nil, &cliFlags{}, cfg); !req.Plain {
			t.Error("config toc.disabled did not set Plain")
		}
	})
}

func TestRunConvertWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "print.yaml")
	cfg := "titlePage:\n  title: From Config\nrender:\n  readyTimeout: 20s\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv()
	code := run(context.Background(), []string{"analysis.ipynb", "--config", cfgPath, "-q"}, env.deps, env.factory)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %q", code, env.stderr.String())
	}
	if env.service.req.Title != "From Config" {
		t.Errorf("Title = %q, want From Config", env.service.req.Title)
	}
}

func TestValidateNotebookExtension(t *testing.T) {
	if err := validateNotebookExtension("a/b/notebook.ipynb"); err != nil {
		t.Errorf("valid extension rejected: %v", err)
	}
	for _, bad := range []string{"notebook.html", "notebook", "notebook.IPYNB"} {
		if err := validateNotebookExtension(bad); err == nil {
			t.Errorf("invalid extension %q accepted", bad)
		}
	}
}
