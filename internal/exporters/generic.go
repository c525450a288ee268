package exporters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/importers"
)

// DocumentSource iterates the exportable documents of a project with their
// annotations, labels and users loaded.
type DocumentSource interface {
	EachForExport(ctx context.Context, projectID uint, batchSize int, fn func(*entities.Document) error) error
}

type ExportStats struct {
	Documents int `json:"documents"`
	Rows      int `json:"rows"` // CSV rows or JSON lines written, header excluded
}

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat resolves the download format query parameter. Only csv and
// json can be exported.
func ParseFormat(name string) (importers.Format, error) {
	switch importers.Format(strings.ToLower(strings.TrimSpace(name))) {
	case importers.FormatCSV:
		return importers.FormatCSV, nil
	case importers.FormatJSON:
		return importers.FormatJSON, nil
	default:
		return "", fmt.Errorf("%w %q: choose csv or json", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the response content type of an export format.
func ContentType(format importers.Format) string {
	if format == importers.FormatCSV {
		return "text/csv"
	}
	return "text/json"
}
