package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events of a project as JSON
// GET /api/projects/:project_id/audit?type=import|export|delete
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return
	}

	page := parsePage(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), projectID, limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(projectID, limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
		HasMore:    int64(offset+len(events)) < total,
	})
}
