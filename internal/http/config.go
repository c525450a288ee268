package http

import (
	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/readonly"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores and pipeline
	Projects ProjectStore
	Labels   LabelStore
	Dataset  DatasetStore
	Importer Importer
	Exporter DatasetExporter
	Database *database.Database

	// Optional; events are not recorded when nil
	AuditService *audit.Service

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth

	// Optional; flash notices are dropped when nil
	SessionManager *auth.SessionManager

	// Optional; blocks write requests when enabled
	ReadOnly *readonly.Middleware

	// Enables CSRF protection of the form routes when set
	CSRFSecret []byte

	// Largest accepted upload request; also the multipart memory limit
	MaxUploadBytes int64

	// Application info
	Version string
}
