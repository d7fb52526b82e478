package ports

import (
	"io"

	"freight/internal/core/domain/services"
)

// ReportExporter renders a report bundle as a downloadable document.
type ReportExporter interface {
	ContentType() string
	Export(w io.Writer, bundle services.ReportBundle) error
}
