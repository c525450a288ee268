package importers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mrlokans/annotator/internal/entities"
)

// DocumentStore bulk-inserts documents and sets their assigned ids.
type DocumentStore interface {
	BulkCreate(ctx context.Context, docs []*entities.Document) error
}

// AnnotationStore bulk-inserts annotations.
type AnnotationStore interface {
	BulkCreate(ctx context.Context, spans []*entities.SequenceAnnotation) error
}

// JobRequest describes one uploaded file to import.
type JobRequest struct {
	ProjectID uint
	UserID    uint
	FileName  string
	// Format overrides detection from FileName when set.
	Format Format
	Source io.Reader
}

// Result summarizes an import job. On failure it holds the counts committed
// before the error.
type Result struct {
	JobID             string `json:"job_id"`
	Format            Format `json:"format"`
	Documents         int    `json:"documents"`
	Annotations       int    `json:"annotations"`
	DocumentBatches   int    `json:"document_batches"`
	AnnotationBatches int    `json:"annotation_batches"`
	UnresolvedLabels  int    `json:"unresolved_labels"`
	InvalidSpans      int    `json:"invalid_spans"`
	MetadataFallbacks int    `json:"metadata_fallbacks"`
}

// Job is the in-memory state of one import. It is never persisted.
type Job struct {
	ID        string
	Source    io.Reader
	FileName  string
	Format    Format
	ProjectID uint
	UserID    uint
	Labels    *LabelResolver
	Result    Result
	Err       error // first error; aborts the job
}

func (j *Job) fail(err error) {
	if j.Err == nil {
		j.Err = err
	}
}

// pendingSpans keeps the spans of a record until its document has an id.
type pendingSpans struct {
	doc   *entities.Document
	spans []Span
}

// Pipeline runs import jobs:
// detect format → parse → extract metadata → commit documents → bind and
// commit annotations.
type Pipeline struct {
	documents   DocumentStore
	annotations AnnotationStore
	labels      LabelFinder
	batchSize   int
}

func NewPipeline(documents DocumentStore, annotations AnnotationStore, labels LabelFinder, batchSize int) *Pipeline {
	return &Pipeline{
		documents:   documents,
		annotations: annotations,
		labels:      labels,
		batchSize:   batchSize,
	}
}

// Run imports one file. Format errors are detected before anything is
// written when the source is seekable; persistence errors leave earlier
// batches committed.
func (p *Pipeline) Run(ctx context.Context, req JobRequest) (Result, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Source:    req.Source,
		FileName:  req.FileName,
		Format:    req.Format,
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
	}
	job.Result.JobID = job.ID

	err := p.run(ctx, job)
	job.fail(err)

	logger := slog.With("job_id", job.ID, "project_id", job.ProjectID, "file", job.FileName, "format", job.Format)
	if job.Err != nil {
		logger.Error("import failed", "error", job.Err,
			"documents", job.Result.Documents, "annotations", job.Result.Annotations)
		return job.Result, job.Err
	}

	logger.Info("import finished",
		"documents", job.Result.Documents,
		"annotations", job.Result.Annotations,
		"unresolved_labels", job.Result.UnresolvedLabels,
		"invalid_spans", job.Result.InvalidSpans,
		"metadata_fallbacks", job.Result.MetadataFallbacks)
	return job.Result, nil
}

func (p *Pipeline) run(ctx context.Context, job *Job) error {
	if job.Format == "" {
		format, err := DetectFormat(job.FileName)
		if err != nil {
			return err
		}
		job.Format = format
	}
	job.Result.Format = job.Format

	parser, err := ParserFor(job.Format)
	if err != nil {
		return err
	}

	if seeker, ok := job.Source.(io.ReadSeeker); ok {
		if err := validate(parser, seeker); err != nil {
			return err
		}
	}

	records, err := parser.Parse(job.Source)
	if err != nil {
		return err
	}

	job.Labels, err = NewLabelResolver(ctx, p.labels, job.ProjectID)
	if err != nil {
		return err
	}

	pending, err := p.commitDocuments(ctx, job, records)
	if err != nil {
		return err
	}

	return p.commitAnnotations(ctx, job, pending)
}

// validate parses the whole source once and rewinds it, so a malformed
// file is rejected before the first batch is written.
func validate(parser Parser, source io.ReadSeeker) error {
	start, err := source.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to read upload position: %w", err)
	}

	records, err := parser.Parse(source)
	if err != nil {
		return err
	}
	for _, err := range records {
		if err != nil {
			return err
		}
	}

	if _, err := source.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}
	return nil
}

func (p *Pipeline) commitDocuments(ctx context.Context, job *Job, records Records) ([]pendingSpans, error) {
	var pending []pendingSpans

	docs := func(yield func(*entities.Document) bool) {
		for rec, err := range records {
			if err != nil {
				job.fail(err)
				return
			}
			if rec.Text == "" {
				job.fail(&ImportFormatError{Format: job.Format, Message: ErrEmptyText.Error(), Err: ErrEmptyText})
				return
			}

			meta := ExtractMetadata(rec.RawFields)
			if meta.Fallback {
				job.Result.MetadataFallbacks++
				slog.Warn("metadata could not be serialized, storing empty object", "job_id", job.ID, "error", meta.Err)
			}

			doc := &entities.Document{
				ProjectID: job.ProjectID,
				Text:      rec.Text,
				Metadata:  meta.Value,
			}
			if len(rec.Spans) > 0 {
				pending = append(pending, pendingSpans{doc: doc, spans: rec.Spans})
			}
			if !yield(doc) {
				return
			}
		}
	}

	// A parse error ends the sequence early; the rows buffered before it
	// must not be flushed.
	create := func(ctx context.Context, batch []*entities.Document) error {
		if job.Err != nil {
			return job.Err
		}
		return p.documents.BulkCreate(ctx, batch)
	}

	stats, err := CommitBatches(ctx, iter.Seq[*entities.Document](docs), p.batchSize, create)
	job.Result.Documents = stats.Committed
	job.Result.DocumentBatches = stats.Batches
	if job.Err != nil {
		return nil, job.Err
	}
	if err != nil {
		return nil, withEntity(err, "documents")
	}
	return pending, nil
}

func (p *Pipeline) commitAnnotations(ctx context.Context, job *Job, pending []pendingSpans) error {
	if len(pending) == 0 {
		return nil
	}

	binder := NewAnnotationBinder(job.Labels)
	var bindStats BindStats

	spans := func(yield func(*entities.SequenceAnnotation) bool) {
		for _, item := range pending {
			bound, stats := binder.Bind(item.doc.ID, job.UserID, item.spans)
			bindStats.Add(stats)
			for _, annotation := range bound {
				if !yield(annotation) {
					return
				}
			}
		}
	}

	stats, err := CommitBatches(ctx, iter.Seq[*entities.SequenceAnnotation](spans), p.batchSize, p.annotations.BulkCreate)
	job.Result.Annotations = stats.Committed
	job.Result.AnnotationBatches = stats.Batches
	job.Result.UnresolvedLabels = bindStats.Unresolved
	job.Result.InvalidSpans = bindStats.InvalidSpans
	if err != nil {
		return withEntity(err, "annotations")
	}
	return nil
}

func withEntity(err error, entity string) error {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		perr.Entity = entity
	}
	return err
}
