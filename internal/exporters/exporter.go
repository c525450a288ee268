package exporters

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/importers"
)

// Exporter streams a project's documents as CSV rows or JSON lines, in
// ascending document id order.
type Exporter struct {
	source    DocumentSource
	batchSize int
}

func NewExporter(source DocumentSource, batchSize int) *Exporter {
	return &Exporter{source: source, batchSize: batchSize}
}

func (e *Exporter) Export(ctx context.Context, projectID uint, format importers.Format, w io.Writer) (ExportStats, error) {
	var stats ExportStats
	var err error

	switch format {
	case importers.FormatCSV:
		stats, err = e.exportCSV(ctx, projectID, w)
	case importers.FormatJSON:
		stats, err = e.exportJSON(ctx, projectID, w)
	default:
		return stats, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return stats, err
	}
	slog.Info("export finished", "project_id", projectID, "format", format, "documents", stats.Documents, "rows", stats.Rows)
	return stats, nil
}

// exportCSV writes a header row followed by every row of
// entities.Document.CSVRows.
func (e *Exporter) exportCSV(ctx context.Context, projectID uint, w io.Writer) (ExportStats, error) {
	var stats ExportStats
	writer := csv.NewWriter(w)

	if err := writer.Write(entities.CSVHeader); err != nil {
		return stats, fmt.Errorf("failed to write CSV header: %w", err)
	}

	err := e.source.EachForExport(ctx, projectID, e.batchSize, func(doc *entities.Document) error {
		rows := doc.CSVRows()
		if err := writer.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write document %d: %w", doc.ID, err)
		}
		stats.Documents++
		stats.Rows += len(rows)
		return nil
	})
	if err != nil {
		return stats, err
	}

	writer.Flush()
	return stats, writer.Error()
}

// exportJSON writes one JSON object per line. Non-ASCII and HTML characters
// are written literally.
func (e *Exporter) exportJSON(ctx context.Context, projectID uint, w io.Writer) (ExportStats, error) {
	var stats ExportStats
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	err := e.source.EachForExport(ctx, projectID, e.batchSize, func(doc *entities.Document) error {
		if err := enc.Encode(doc.JSONRecord()); err != nil {
			return fmt.Errorf("failed to write document %d: %w", doc.ID, err)
		}
		stats.Documents++
		stats.Rows++
		return nil
	})
	return stats, err
}
