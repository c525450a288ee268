package importers

import (
	"log/slog"

	"github.com/mrlokans/annotator/internal/entities"
)

// BindStats counts what happened to the spans of one or more records.
type BindStats struct {
	Bound        int
	Unresolved   int // label name not defined for the project
	InvalidSpans int // negative start or start >= end
}

func (s *BindStats) Add(other BindStats) {
	s.Bound += other.Bound
	s.Unresolved += other.Unresolved
	s.InvalidSpans += other.InvalidSpans
}

// AnnotationBinder turns parsed spans of a committed document into
// annotation entities.
type AnnotationBinder struct {
	labels *LabelResolver
}

func NewAnnotationBinder(labels *LabelResolver) *AnnotationBinder {
	return &AnnotationBinder{labels: labels}
}

// Bind resolves every span's label. Spans with an unknown label or invalid
// offsets are dropped; the remaining spans of the record are kept.
func (b *AnnotationBinder) Bind(docID, userID uint, spans []Span) ([]*entities.SequenceAnnotation, BindStats) {
	var stats BindStats
	out := make([]*entities.SequenceAnnotation, 0, len(spans))

	for _, span := range spans {
		if span.Start < 0 || span.Start >= span.End {
			stats.InvalidSpans++
			slog.Debug("dropping span with invalid offsets", "document_id", docID, "start", span.Start, "end", span.End)
			continue
		}
		labelID, ok := b.labels.Resolve(span.Label)
		if !ok {
			stats.Unresolved++
			slog.Debug("dropping span with unknown label", "document_id", docID, "label", span.Label)
			continue
		}

		out = append(out, &entities.SequenceAnnotation{
			DocumentID:  docID,
			LabelID:     labelID,
			UserID:      userID,
			StartOffset: span.Start,
			EndOffset:   span.End,
			Probability: 0,
			Manual:      false,
		})
		stats.Bound++
	}

	return out, stats
}
