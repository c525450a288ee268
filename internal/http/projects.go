package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/utils"
)

// ProjectsController manages projects and their label sets.
type ProjectsController struct {
	projects ProjectStore
	labels   LabelStore
}

func NewProjectsController(projects ProjectStore, labels LabelStore) *ProjectsController {
	return &ProjectsController{projects: projects, labels: labels}
}

type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required,max=100"`
	Description string               `json:"description"`
	ProjectType entities.ProjectType `json:"project_type"`
}

type CreateLabelRequest struct {
	Text            string `json:"text" binding:"required,max=100"`
	ShortcutKey     string `json:"shortcut_key" binding:"max=15"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// ListProjects returns all projects.
// GET /api/projects
func (pc *ProjectsController) ListProjects(c *gin.Context) {
	projects, err := pc.projects.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject creates a project.
// POST /api/projects
func (pc *ProjectsController) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	switch req.ProjectType {
	case "", entities.ProjectTypeSequenceLabeling, entities.ProjectTypeDocumentClassifier, entities.ProjectTypeSeq2Seq:
	default:
		respondBadRequest(c, "unknown project_type")
		return
	}

	project := &entities.Project{
		Name:        name,
		Description: req.Description,
		ProjectType: req.ProjectType,
	}
	if err := pc.projects.Create(c.Request.Context(), project); err != nil {
		respondInternalError(c, err, "create project")
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject returns a project with its labels.
// GET /api/projects/:project_id
func (pc *ProjectsController) GetProject(c *gin.Context) {
	project, ok := loadProject(c, pc.projects)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListLabels returns the labels of a project.
// GET /api/projects/:project_id/labels
func (pc *ProjectsController) ListLabels(c *gin.Context) {
	project, ok := loadProject(c, pc.projects)
	if !ok {
		return
	}

	labels, err := pc.labels.FindLabelsByProject(c.Request.Context(), project.ID)
	if err != nil {
		respondInternalError(c, err, "list labels")
		return
	}
	c.JSON(http.StatusOK, labels)
}

// CreateLabel adds a label to a project. Imported spans resolve against
// these label texts.
// POST /api/projects/:project_id/labels
func (pc *ProjectsController) CreateLabel(c *gin.Context) {
	project, ok := loadProject(c, pc.projects)
	if !ok {
		return
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	label := &entities.Label{
		ProjectID:   project.ID,
		Text:        strings.TrimSpace(req.Text),
		ShortcutKey: req.ShortcutKey,
	}
	if label.Text == "" {
		respondBadRequest(c, "text is required")
		return
	}

	if req.BackgroundColor != "" {
		background, err := utils.NormalizeHexColor(req.BackgroundColor)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		label.BackgroundColor = background
		label.TextColor = utils.ContrastTextColor(background)
	}
	if req.TextColor != "" {
		text, err := utils.NormalizeHexColor(req.TextColor)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		label.TextColor = text
	}

	if err := pc.labels.Create(c.Request.Context(), label); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondConflict(c, "label already exists")
			return
		}
		respondInternalError(c, err, "create label")
		return
	}
	c.JSON(http.StatusCreated, label)
}
