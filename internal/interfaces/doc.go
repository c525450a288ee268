// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ProjectStore, LabelStore, DatasetStore: controller dependencies (internal/http/stores.go)
//   - UserRepository: user lookup for token auth (internal/auth/service.go)
//
// ## Import Pipeline Interfaces
//
//   - Parser: turns one file format into a sequence of records (internal/importers/record.go)
//   - DocumentStore, AnnotationStore: bulk inserts (internal/importers/pipeline.go)
//   - LabelFinder: label lookup for span binding (internal/importers/labels.go)
//
// ## Export Interfaces
//
//   - DocumentSource: batched iteration in id order (internal/exporters/generic.go)
//
// ## Background Work Interfaces
//
//   - AuditEventCleaner: retention cleanup (internal/tasks, internal/scheduler)
//   - AuditCleanupEnqueuer: hands scheduled runs to the task queue (internal/scheduler)
//
// # Adding a New Import Format
//
//  1. Add the format and its file suffixes in internal/importers/format.go
//
//  2. Implement Parser in internal/importers/
//
//     type tsvParser struct{}
//
//     func (tsvParser) Parse(r io.Reader) (Records, error) {
//         // Validate the header, then yield one ImportRecord per row
//     }
//
//  3. Return it from ParserFor
//
// Upload, CLI import and format detection pick the new format up without
// further changes.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/comments/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the model to the AutoMigrate list in internal/database/database.go
//
//  4. Add compile-time check:
//
//     var _ http.CommentStore = (*comments.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
