package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/database/annotations"
	"github.com/mrlokans/annotator/internal/database/documents"
	"github.com/mrlokans/annotator/internal/database/labels"
	"github.com/mrlokans/annotator/internal/database/projects"
	"github.com/mrlokans/annotator/internal/database/users"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/http"
	"github.com/mrlokans/annotator/internal/importers"
	"github.com/mrlokans/annotator/internal/scheduler"
	"github.com/mrlokans/annotator/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.ProjectStore = (*projects.Repository)(nil)
var _ http.LabelStore = (*labels.Repository)(nil)
var _ http.DatasetStore = (*documents.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.DocumentStore = (*documents.Repository)(nil)
var _ importers.AnnotationStore = (*annotations.Repository)(nil)
var _ importers.LabelFinder = (*labels.Repository)(nil)
var _ http.Importer = (*importers.Pipeline)(nil)

// =============================================================================
// Export
// =============================================================================

var _ exporters.DocumentSource = (*documents.Repository)(nil)
var _ http.DatasetExporter = (*exporters.Exporter)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)
