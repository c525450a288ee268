package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/importers"
)

// UploadController imports uploaded dataset files into a project.
type UploadController struct {
	projects     ProjectGetter
	importer     Importer
	notices      notices
	auditService *audit.Service
	maxBytes     int64 // 0 disables the cap
}

func NewUploadController(projects ProjectGetter, importer Importer, sessions *auth.SessionManager, auditService *audit.Service, maxBytes int64) *UploadController {
	return &UploadController{
		projects:     projects,
		importer:     importer,
		notices:      notices{sessions: sessions},
		auditService: auditService,
		maxBytes:     maxBytes,
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func (uc *UploadController) tooLargeMessage() string {
	return fmt.Sprintf("File is too large. Uploads are limited to %s.", formatBytes(uc.maxBytes))
}

func uploadPath(projectID uint) string {
	return fmt.Sprintf("/projects/%d/upload", projectID)
}

// UploadPage returns the upload form state: accepted suffixes and the
// notices left by the previous attempt.
// GET /projects/:project_id/upload
func (uc *UploadController) UploadPage(c *gin.Context) {
	project, ok := loadProject(c, uc.projects)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":    project,
		"formats":    importers.SupportedSuffixes,
		"notices":    uc.notices.pop(c),
		"csrf_token": auth.GetCSRFToken(c),
	})
}

// Upload imports the multipart "file" field. The optional "format" field
// overrides detection from the file name.
// POST /projects/:project_id/upload
func (uc *UploadController) Upload(c *gin.Context) {
	project, ok := loadProject(c, uc.projects)
	if !ok {
		return
	}
	back := uploadPath(project.ID)

	if uc.maxBytes > 0 {
		if c.Request.ContentLength > uc.maxBytes {
			uc.notices.add(c, auth.NoticeError, uc.tooLargeMessage())
			c.Redirect(http.StatusFound, back)
			return
		}
		// Chunked bodies carry no length up front.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uc.notices.add(c, auth.NoticeError, uc.tooLargeMessage())
			c.Redirect(http.StatusFound, back)
			return
		}
		uc.notices.add(c, auth.NoticeError, "Choose a file to upload.")
		c.Redirect(http.StatusFound, back)
		return
	}

	var format importers.Format
	if name := c.PostForm("format"); name != "" {
		format, err = importers.ParseFormat(name)
		if err != nil {
			uc.notices.add(c, auth.NoticeError, importers.UserMessage(err))
			c.Redirect(http.StatusFound, back)
			return
		}
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "error", err, "file", header.Filename)
		uc.notices.add(c, auth.NoticeError, importers.GenericFailureMessage)
		c.Redirect(http.StatusFound, back)
		return
	}
	defer file.Close()

	userID := GetUserID(c)
	result, err := uc.importer.Run(c.Request.Context(), importers.JobRequest{
		ProjectID: project.ID,
		UserID:    userID,
		FileName:  header.Filename,
		Format:    format,
		Source:    file,
	})

	if uc.auditService != nil {
		uc.auditService.LogImport(userID, project.ID, header.Filename, result, err)
	}

	if err != nil {
		if !importers.IsUserFacing(err) {
			slog.Error("upload failed", "error", err, "project_id", project.ID, "file", header.Filename)
		}
		uc.notices.add(c, auth.NoticeError, importers.UserMessage(err))
		c.Redirect(http.StatusFound, back)
		return
	}

	uc.notices.add(c, auth.NoticeSuccess, fmt.Sprintf("Imported %d documents and %d annotations.",
		result.Documents, result.Annotations))
	c.Redirect(http.StatusFound, datasetPath(project.ID))
}
