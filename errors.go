package nb2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrSourceNotFound  = errors.New("source notebook not found")
	ErrNotebookConvert = errors.New("notebook conversion failed")
	ErrReadMarkup      = errors.New("failed to read converted markup")
	ErrWriteMarkup     = errors.New("failed to write augmented markup")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrWritePDF        = errors.New("failed to write PDF file")

	// Request validation errors.
	ErrEmptySource        = errors.New("source path cannot be empty")
	ErrInvalidHeaderColor = errors.New("invalid header color")

	// Fragment rendering errors.
	ErrFragmentRender = errors.New("fragment template rendering failed")
)
