package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/utils"
)

// DownloadController streams project exports as file attachments.
type DownloadController struct {
	projects     ProjectGetter
	exporter     DatasetExporter
	notices      notices
	auditService *audit.Service
}

func NewDownloadController(projects ProjectGetter, exporter DatasetExporter, sessions *auth.SessionManager, auditService *audit.Service) *DownloadController {
	return &DownloadController{
		projects:     projects,
		exporter:     exporter,
		notices:      notices{sessions: sessions},
		auditService: auditService,
	}
}

func downloadPath(projectID uint) string {
	return fmt.Sprintf("/projects/%d/download", projectID)
}

// Download writes the export when a format is given and otherwise returns
// the download page state.
// GET /projects/:project_id/download?format=csv|json
func (dc *DownloadController) Download(c *gin.Context) {
	project, ok := loadProject(c, dc.projects)
	if !ok {
		return
	}

	name, requested := c.GetQuery("format")
	if !requested {
		c.JSON(http.StatusOK, gin.H{
			"project": project,
			"formats": []string{"csv", "json"},
			"notices": dc.notices.pop(c),
		})
		return
	}

	format, err := exporters.ParseFormat(name)
	if err != nil {
		dc.notices.add(c, auth.NoticeError, "Unsupported export format. Choose csv or json.")
		c.Redirect(http.StatusFound, downloadPath(project.ID))
		return
	}

	filename := utils.ExportFilename(project.Name, format.Extension())
	c.Header("Content-Type", exporters.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	stats, err := dc.exporter.Export(c.Request.Context(), project.ID, format, c.Writer)
	if dc.auditService != nil {
		dc.auditService.LogExport(GetUserID(c), project.ID, string(format), stats.Documents, err)
	}
	if err != nil {
		if !c.Writer.Written() {
			c.Header("Content-Type", "")
			c.Header("Content-Disposition", "")
			respondInternalError(c, err, "export dataset")
			return
		}
		// Headers are gone; the client sees a truncated attachment.
		slog.Error("export interrupted", "error", err, "project_id", project.ID, "documents", stats.Documents)
		c.Abort()
		return
	}

	if !c.Writer.Written() {
		c.Status(http.StatusOK)
	}
}
