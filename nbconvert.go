package nb2pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// notebookConverter abstracts notebook-to-markup conversion to allow
// different backends.
type notebookConverter interface {
	ToHTML(ctx context.Context, notebookPath string) (string, error)
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// NotebookConverter converts a notebook to HTML by invoking the external
// jupyter nbconvert tool. The tool writes a same-stem .html file beside the
// source; a non-zero exit is fatal.
type NotebookConverter struct {
	Runner CommandRunner
}

// NewNotebookConverter creates a NotebookConverter with a real command runner.
func NewNotebookConverter() *NotebookConverter {
	return &NotebookConverter{Runner: &ExecRunner{}}
}

// ToHTML converts the notebook at notebookPath to a sibling HTML file and
// returns the HTML file path.
func (c *NotebookConverter) ToHTML(ctx context.Context, notebookPath string) (string, error) {
	_, stderr, err := c.Runner.Run(ctx, "jupyter", "nbconvert", "--to", "html", notebookPath)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail != "" {
			return "", fmt.Errorf("%w: %s: %v", ErrNotebookConvert, detail, err)
		}
		return "", fmt.Errorf("%w: %v", ErrNotebookConvert, err)
	}

	return fileutil.ReplaceExt(notebookPath, ".html"), nil
}
