package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/entities"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("internal error", "context", context, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads the 1-based page query parameter.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func totalPages(total int64, limit int) int {
	pages := (int(total) + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

// loadProject resolves the :project_id parameter. It writes the error
// response itself and returns false when the project cannot be used.
func loadProject(c *gin.Context, projects ProjectGetter) (*entities.Project, bool) {
	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return nil, false
	}

	project, err := projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "project")
			return nil, false
		}
		respondInternalError(c, err, "load project")
		return nil, false
	}
	return project, true
}

// --- Flash Notices ---

// notices queues and pops the one-shot messages shown after a redirect.
// A nil session manager turns both operations into no-ops.
type notices struct {
	sessions *auth.SessionManager
}

func (n notices) add(c *gin.Context, level auth.NoticeLevel, message string) {
	if n.sessions == nil {
		return
	}
	n.sessions.AddNotice(c.Request.Context(), level, message)
}

func (n notices) pop(c *gin.Context) []auth.Notice {
	if n.sessions == nil {
		return []auth.Notice{}
	}
	popped := n.sessions.PopNotices(c.Request.Context())
	if popped == nil {
		return []auth.Notice{}
	}
	return popped
}
