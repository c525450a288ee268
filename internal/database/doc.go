// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, default user seeding
//	├── projects/        # Project CRUD operations
//	├── labels/          # Label lookup per project
//	├── documents/       # Bulk document creation, deletion, export listing
//	├── annotations/     # Bulk annotation creation
//	├── users/           # User and API token management
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./annotator.db", "warn")
//
//	docsRepo := documents.NewRepository(db.DB)
//	labelsRepo := labels.NewRepository(db.DB)
//
//	err = docsRepo.BulkCreate(ctx, docs)
//	labels, err := labelsRepo.FindLabelsByProject(ctx, projectID)
//
// # Interface Implementations
//
//   - documents.Repository: implements importers.DocumentStore, exporters.DocumentSource
//   - annotations.Repository: implements importers.AnnotationStore
//   - labels.Repository: implements importers.LabelFinder
//   - projects.Repository: implements http.ProjectStore
//   - audit.Repository: implements tasks.AuditEventCleaner
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
