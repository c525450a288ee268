package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	// Sessions load before anything that reads or queues notices
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	upload := NewUploadController(cfg.Projects, cfg.Importer, cfg.SessionManager, cfg.AuditService, cfg.MaxUploadBytes)
	dataset := NewDatasetController(cfg.Projects, cfg.Dataset, cfg.SessionManager, cfg.AuditService)
	download := NewDownloadController(cfg.Projects, cfg.Exporter, cfg.SessionManager, cfg.AuditService)
	projects := NewProjectsController(cfg.Projects, cfg.Labels)

	// Form routes: browser-facing, redirect with flash notices
	forms := router.Group("/projects/:project_id")
	if len(cfg.CSRFSecret) > 0 {
		forms.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies, cfg.AuthService))
	}
	{
		forms.GET("/upload", upload.UploadPage)
		forms.POST("/upload", upload.Upload)
		forms.GET("/docs", dataset.DatasetPage)
		forms.POST("/docs/:doc_id/delete", dataset.DeleteDocument)
		forms.GET("/download", download.Download)
	}

	api := router.Group("/api")
	{
		api.GET("/projects", projects.ListProjects)
		api.POST("/projects", projects.CreateProject)
		api.GET("/projects/:project_id", projects.GetProject)
		api.GET("/projects/:project_id/labels", projects.ListLabels)
		api.POST("/projects/:project_id/labels", projects.CreateLabel)
		api.DELETE("/projects/:project_id/docs/:doc_id", dataset.DeleteDocumentAPI)

		if cfg.AuditService != nil {
			auditController := NewAuditController(cfg.AuditService)
			api.GET("/projects/:project_id/audit", auditController.GetAuditEvents)
		}
	}

	return router
}
