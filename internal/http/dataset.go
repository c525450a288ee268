package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
)

// DatasetPageSize is the number of documents per dataset page.
const DatasetPageSize = 5

// DatasetController lists and deletes the documents of a project.
type DatasetController struct {
	projects     ProjectGetter
	store        DatasetStore
	notices      notices
	auditService *audit.Service
}

func NewDatasetController(projects ProjectGetter, store DatasetStore, sessions *auth.SessionManager, auditService *audit.Service) *DatasetController {
	return &DatasetController{
		projects:     projects,
		store:        store,
		notices:      notices{sessions: sessions},
		auditService: auditService,
	}
}

func datasetPath(projectID uint) string {
	return fmt.Sprintf("/projects/%d/docs", projectID)
}

// DatasetPage returns one page of documents with their annotations.
// GET /projects/:project_id/docs?page=N
func (dc *DatasetController) DatasetPage(c *gin.Context) {
	project, ok := loadProject(c, dc.projects)
	if !ok {
		return
	}

	page := parsePage(c)
	docs, total, err := dc.store.ListPage(c.Request.Context(), project.ID, DatasetPageSize, (page-1)*DatasetPageSize)
	if err != nil {
		respondInternalError(c, err, "list documents")
		return
	}

	// The most recent document lets the page point at what the last
	// upload added, whatever page is being viewed.
	latest, err := dc.store.FindLatestForProject(c.Request.Context(), project.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "find latest document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"documents": PaginatedResponse{
			Data:       docs,
			Total:      total,
			Page:       page,
			Limit:      DatasetPageSize,
			TotalPages: totalPages(total, DatasetPageSize),
			HasMore:    int64(page*DatasetPageSize) < total,
		},
		"latest_document": latest,
		"notices":         dc.notices.pop(c),
		"csrf_token":      auth.GetCSRFToken(c),
	})
}

// DeleteDocument removes a document and returns to the dataset view.
// Deleting a document that does not exist is not an error.
// POST /projects/:project_id/docs/:doc_id/delete
func (dc *DatasetController) DeleteDocument(c *gin.Context) {
	projectID, docID, ok := dc.deleteParams(c)
	if !ok {
		return
	}

	if err := dc.delete(c, projectID, docID); err != nil {
		respondInternalError(c, err, "delete document")
		return
	}

	c.Redirect(http.StatusFound, datasetPath(projectID))
}

// DeleteDocumentAPI is the JSON variant of DeleteDocument.
// DELETE /api/projects/:project_id/docs/:doc_id
func (dc *DatasetController) DeleteDocumentAPI(c *gin.Context) {
	projectID, docID, ok := dc.deleteParams(c)
	if !ok {
		return
	}

	if err := dc.delete(c, projectID, docID); err != nil {
		respondInternalError(c, err, "delete document")
		return
	}

	c.Status(http.StatusNoContent)
}

func (dc *DatasetController) deleteParams(c *gin.Context) (uint, uint, bool) {
	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return 0, 0, false
	}
	docID, ok := parseIDParam(c, "doc_id")
	if !ok {
		return 0, 0, false
	}
	return projectID, docID, true
}

func (dc *DatasetController) delete(c *gin.Context, projectID, docID uint) error {
	err := dc.store.Delete(c.Request.Context(), projectID, docID)
	if dc.auditService != nil {
		dc.auditService.LogDelete(GetUserID(c), projectID, docID, err)
	}
	return err
}
