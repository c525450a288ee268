// Package importers turns uploaded dataset files into documents and
// annotations of a project.
//
// # Architecture
//
// An import job flows through a fixed chain of small components:
//
//	file name → DetectFormat → ParserFor → Records (lazy) → ExtractMetadata
//	          → CommitBatches(documents) → AnnotationBinder → CommitBatches(annotations)
//
// Each supported format implements the Parser interface and yields
// ImportRecord values one at a time, so a file is read once and never held
// in memory as a whole (spreadsheets are the exception: excelize loads the
// sheet). Documents are inserted in batches of the configured size; the bulk
// insert writes the assigned ids back, and the annotation pass binds spans
// to those ids.
//
// # Formats
//
//   - csv: header with a "text" column, or a single column without header
//   - json / jsonl: one object per line with "text" and optional "entities"
//   - xlsx: first sheet, header row with a "text" column and optional "entities"
//   - txt: the whole file is one document
//
// # Errors
//
// UnsupportedFormatError and ImportFormatError carry messages meant for the
// user; IsUserFacing tells them apart from everything else. PersistenceError
// reports a failed batch: earlier batches are not rolled back. Unknown
// labels and invalid span offsets never fail a job, they are counted in
// Result.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(docsRepo, annotationsRepo, labelsRepo, cfg.Import.BatchSize)
//	result, err := pipeline.Run(ctx, importers.JobRequest{
//		ProjectID: projectID,
//		UserID:    userID,
//		FileName:  header.Filename,
//		Source:    file,
//	})
package importers
