package main

import (
	"errors"
	"os"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// Exit codes for the nb2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser or external conversion tool errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool and browser errors (exit 4)
	if errors.Is(err, nb2pdf.ErrNotebookConvert) ||
		errors.Is(err, nb2pdf.ErrBrowserConnect) ||
		errors.Is(err, nb2pdf.ErrPageCreate) ||
		errors.Is(err, nb2pdf.ErrPageLoad) ||
		errors.Is(err, nb2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2pdf.ErrSourceNotFound) ||
		errors.Is(err, nb2pdf.ErrReadMarkup) ||
		errors.Is(err, nb2pdf.ErrWriteMarkup) ||
		errors.Is(err, nb2pdf.ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigParse) ||
		errors.Is(err, ErrEmptyConfigName) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, nb2pdf.ErrEmptySource) ||
		errors.Is(err, nb2pdf.ErrInvalidHeaderColor) {
		return ExitUsage
	}

	return ExitGeneral
}
