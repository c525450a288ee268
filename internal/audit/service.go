package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrlokans/annotator/internal/database/audit"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/importers"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			slog.Error("failed to log audit event", "error", err, "action", event.Action)
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogImport records an import job.
func (s *Service) LogImport(userID, projectID uint, fileName string, result importers.Result, err error) {
	action := "import"
	if result.Format != "" {
		action = string(result.Format) + "_import"
	}

	event := &entities.AuditEvent{
		UserID:    userID,
		ProjectID: projectID,
		JobID:     result.JobID,
		EventType: entities.AuditEventImport,
		Action:    action,
		Description: truncate(fmt.Sprintf("Imported %d documents and %d annotations from %s",
			result.Documents, result.Annotations, fileName), 500),
		EntityType: "document",
		Status:     entities.AuditStatusSuccess,
	}

	if mdBytes, e := json.Marshal(result); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogExport records a download.
func (s *Service) LogExport(userID, projectID uint, format string, documents int, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		ProjectID:   projectID,
		EventType:   entities.AuditEventExport,
		Action:      format + "_export",
		Description: fmt.Sprintf("Exported %d documents as %s", documents, format),
		EntityType:  "document",
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a document deletion.
func (s *Service) LogDelete(userID, projectID, docID uint, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		ProjectID:   projectID,
		EventType:   entities.AuditEventDelete,
		Action:      "document_delete",
		Description: fmt.Sprintf("Deleted document %d", docID),
		EntityType:  "document",
		EntityID:    &docID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events of a project.
func (s *Service) GetEvents(projectID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(projectID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, projectID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, projectID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
